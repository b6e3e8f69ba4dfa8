// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/devca/src/internal/authority"
	"github.com/H0llyW00dzZ/devca/src/internal/config"
)

// ToolDefinition pairs an MCP tool with its handler.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: The part the tool plays in the instructions template
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
	Role    string
}

// createTools returns every tool bound to cfg and auth.
func createTools(cfg *config.Config, auth *authority.Authority) []ToolDefinition {
	h := &toolHandlers{cfg: cfg, auth: auth}

	return []ToolDefinition{
		{
			Tool: mcp.NewTool("create_ca",
				mcp.WithDescription("Create the root and intermediate CA, or load them when they already exist"),
				mcp.WithBoolean("reset",
					mcp.Description("Replace an existing CA; every certificate issued before stops verifying (default: false)"),
					mcp.DefaultBool(false),
				),
			),
			Handler: h.handleCreateCA,
			Role:    "authority",
		},
		{
			Tool: mcp.NewTool("issue_server_certificate",
				mcp.WithDescription("Issue a TLS server certificate signed by the intermediate CA"),
				mcp.WithString("common_name",
					mcp.Required(),
					mcp.Description("Host name of the server, also the first subject alternative name; wildcards such as *.example.com are allowed"),
				),
				mcp.WithArray("alt_names",
					mcp.Required(),
					mcp.Description("One or more additional DNS names the certificate covers"),
					mcp.WithStringItems(),
				),
				mcp.WithString("country", mcp.Description("Subject country (C), overrides the configuration")),
				mcp.WithString("state", mcp.Description("Subject state or province (ST), overrides the configuration")),
				mcp.WithString("locality", mcp.Description("Subject locality (L), overrides the configuration")),
				mcp.WithString("org", mcp.Description("Subject organization (O), overrides the configuration")),
				mcp.WithString("org_unit", mcp.Description("Subject organizational unit (OU), overrides the configuration")),
			),
			Handler: h.handleIssueServer,
			Role:    "issuer",
		},
		{
			Tool: mcp.NewTool("list_certificates",
				mcp.WithDescription("List every certificate recorded in the issuance ledger, oldest first"),
				mcp.WithString("format",
					mcp.Description("Output format: 'json' or 'table' (default: json)"),
					mcp.Enum("json", "table"),
					mcp.DefaultString("json"),
				),
			),
			Handler: h.handleListCertificates,
			Role:    "ledger",
		},
		{
			Tool: mcp.NewTool("verify_certificate",
				mcp.WithDescription("Verify a stored server certificate against the stored intermediate and root CA"),
				mcp.WithString("common_name",
					mcp.Required(),
					mcp.Description("Common name the certificate was issued for"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'tree', 'table' or 'json' (default: tree)"),
					mcp.Enum("tree", "table", "json"),
					mcp.DefaultString("tree"),
				),
			),
			Handler: h.handleVerifyCertificate,
			Role:    "verifier",
		},
	}
}

// serverTools converts definitions for registration.
func serverTools(tools []ToolDefinition) []server.ServerTool {
	out := make([]server.ServerTool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, server.ServerTool{Tool: tool.Tool, Handler: tool.Handler})
	}
	return out
}
