// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server
// template files, such as the server instructions shown to clients on
// initialization.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/devca/src/mcp-server/templates"
//
//	content, err := templates.MagicEmbed.ReadFile(templates.InstructionsFile)
//	if err != nil {
//		return fmt.Errorf("failed to read instructions: %w", err)
//	}
package templates
