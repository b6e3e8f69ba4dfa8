// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/devca/src/internal/authority"
	"github.com/H0llyW00dzZ/devca/src/internal/config"
	"github.com/H0llyW00dzZ/devca/src/mcp-server/templates"
)

// ServerName identifies the server to MCP clients.
const ServerName = "devca"

// ErrMissingDependency indicates a [ServerBuilder] without configuration or
// authority.
var ErrMissingDependency = errors.New("mcpserver: configuration and authority are required")

// ServerBuilder constructs the MCP server with a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithConfig(cfg).
//	    WithAuthority(auth).
//	    WithVersion(version).
//	    Build()
type ServerBuilder struct {
	cfg     *config.Config
	auth    *authority.Authority
	embed   templates.EmbedFS
	version string
}

// NewServerBuilder creates a builder reading templates from
// [templates.MagicEmbed].
func NewServerBuilder() *ServerBuilder {
	return &ServerBuilder{embed: templates.MagicEmbed}
}

// WithConfig sets the configuration server subjects default to.
func (b *ServerBuilder) WithConfig(cfg *config.Config) *ServerBuilder {
	b.cfg = cfg
	return b
}

// WithAuthority sets the authority the tools operate on.
func (b *ServerBuilder) WithAuthority(auth *authority.Authority) *ServerBuilder {
	b.auth = auth
	return b
}

// WithEmbed replaces the template filesystem.
func (b *ServerBuilder) WithEmbed(embed templates.EmbedFS) *ServerBuilder {
	b.embed = embed
	return b
}

// WithVersion sets the version reported to clients.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.version = version
	return b
}

// Build returns the configured server.
//
// Returns:
//   - *server.MCPServer: The server with every tool registered
//   - error: A missing configuration or authority, or a broken
//     instructions template
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	if b.cfg == nil || b.auth == nil {
		return nil, ErrMissingDependency
	}

	tools := createTools(b.cfg, b.auth)
	instructions, err := loadInstructions(b.embed, tools, b.auth)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		ServerName,
		b.version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)
	s.AddTools(serverTools(tools)...)
	return s, nil
}

// Run serves the authority over stdio until ctx is cancelled or in is
// closed. Protocol diagnostics go to errOut, since out carries the protocol.
func Run(ctx context.Context, version string, cfg *config.Config, auth *authority.Authority, in io.Reader, out, errOut io.Writer) error {
	s, err := NewServerBuilder().
		WithConfig(cfg).
		WithAuthority(auth).
		WithVersion(version).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(log.New(errOut, "", log.LstdFlags))

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
