// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes the devca authority as an [MCP] server over
// stdio, so that coding agents can create the CA, issue server certificates
// for the services they start and verify them.
//
// Tools:
//   - create_ca: Create or load the root and intermediate CA
//   - issue_server_certificate: Issue a server certificate
//   - list_certificates: List the issuance ledger
//   - verify_certificate: Verify a stored server certificate
//
// Tool failures are returned as tool results with IsError set, not as
// protocol errors, so the agent sees the reason.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
