// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/H0llyW00dzZ/devca/src/internal/authority"
	"github.com/H0llyW00dzZ/devca/src/mcp-server/templates"
)

// instructionData holds the data used to populate the instructions template.
type instructionData struct {
	Tools     []toolInfo
	ToolRoles map[string]string // Maps tool roles to tool names
	Dir       string
	RootCert  string
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string
	Description string
}

// loadInstructions renders the instructions template with the registered
// tools and the file layout of auth.
func loadInstructions(embed templates.EmbedFS, tools []ToolDefinition, auth *authority.Authority) (string, error) {
	templateBytes, err := embed.ReadFile(templates.InstructionsFile)
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	layout := auth.Layout()
	data := instructionData{
		ToolRoles: make(map[string]string, len(tools)),
		Dir:       layout.Dir,
		RootCert:  layout.CACert(),
	}
	for _, tool := range tools {
		data.Tools = append(data.Tools, toolInfo{
			Name:        tool.Tool.Name,
			Description: tool.Tool.Description,
		})
		if tool.Role != "" {
			data.ToolRoles[tool.Role] = tool.Tool.Name
		}
	}

	tmpl, err := template.New("instructions").Option("missingkey=error").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}
	return buf.String(), nil
}
