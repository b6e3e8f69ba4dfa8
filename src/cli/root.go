// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/devca/src/internal/authority"
	"github.com/H0llyW00dzZ/devca/src/internal/config"
	"github.com/H0llyW00dzZ/devca/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/devca/src/logger"
)

// ErrInvalidFormat indicates an unknown value for an output format flag.
var ErrInvalidFormat = errors.New("cli: invalid output format")

// app carries the state shared by all commands of one invocation.
type app struct {
	log       logger.Logger
	configDir string
	jsonLog   bool
}

// Execute builds the root command and runs it with ctx against os.Args.
//
// Parameters:
//   - ctx: Cancelled on SIGINT or SIGTERM; checked between key generations
//   - version: Reported by --version
//   - log: Destination for human-readable progress
//
// Returns:
//   - error: The first failure of the selected command
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCmd(version, log).ExecuteContext(ctx)
}

// NewRootCmd returns the devca command tree.
func NewRootCmd(version string, log logger.Logger) *cobra.Command {
	a := &app{log: log}
	exe := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:   exe,
		Short: "Local development certificate authority",
		Long: `Create a root and an intermediate CA for local development and issue
TLS server certificates signed by the intermediate.

Keys and certificates are stored in the configuration directory, by default
~/.devca, or the directory named by DEVCA_HOME.`,
		Example: fmt.Sprintf(`  %[1]s ca
  %[1]s server '*.example.com' '*.another.com'
  %[1]s list --output table
  %[1]s verify '*.example.com'`, exe),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.jsonLog {
				a.log = logger.NewJSONLogger(cmd.ErrOrStderr(), false)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.jsonLog, "json-log", false, "log progress as JSON lines")
	rootCmd.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $DEVCA_HOME or ~/.devca)")

	rootCmd.AddCommand(
		a.newCACmd(),
		a.newServerCmd(),
		a.newListCmd(),
		a.newVerifyCmd(),
		a.newMCPCmd(version),
	)
	return rootCmd
}

// loadConfig resolves and loads the configuration directory.
func (a *app) loadConfig() (*config.Config, error) {
	dir := a.configDir
	if dir == "" {
		var err error
		if dir, err = config.Dir(); err != nil {
			return nil, err
		}
	}
	return config.Load(dir)
}

// newAuthority loads the configuration and returns an authority over it.
func (a *app) newAuthority(verbose bool) (*config.Config, *authority.Authority, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, authority.New(cfg, authority.WithLogger(a.log, verbose)), nil
}
