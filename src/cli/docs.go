// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface of devca.
// It implements a Cobra-based CLI with commands to create the CA hierarchy,
// issue server certificates, list the issuance ledger and verify stored
// certificates. Human-readable progress goes through the logger package,
// which can be switched to structured JSON with --json-log, while listings
// and verification results are written to the command output.
package cli
