// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/devca/src/internal/authority"
	"github.com/H0llyW00dzZ/devca/src/internal/config"
)

// ServerTools exposes the registered tools to the external test package.
func ServerTools(cfg *config.Config, auth *authority.Authority) []server.ServerTool {
	return serverTools(createTools(cfg, auth))
}
