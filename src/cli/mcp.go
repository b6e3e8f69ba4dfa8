// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/H0llyW00dzZ/devca/src/mcp-server"
)

func (a *app) newMCPCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the CA to MCP clients over stdio",
		Long: `Serve the CA as a Model Context Protocol server on stdin and stdout, so
that coding agents can issue and verify certificates for local services.

Standard output carries the protocol; diagnostics go to standard error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, auth, err := a.newAuthority(false)
			if err != nil {
				return err
			}
			return mcpserver.Run(cmd.Context(), version, cfg, auth, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
