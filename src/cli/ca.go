// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newCACmd() *cobra.Command {
	var (
		reset   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "ca",
		Short: "Create the root and intermediate CA",
		Long: `Create the root and intermediate CA in the configuration directory.

Existing CA files are replaced and the issuance ledger is cleared, since
certificates of the previous hierarchy no longer chain. Pass --reset=false
to keep existing files and only create what is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, auth, err := a.newAuthority(verbose)
			if err != nil {
				return err
			}

			h, err := auth.LoadCA(cmd.Context(), reset)
			if err != nil {
				return err
			}

			layout := auth.Layout()
			a.log.Printf("Root CA %q %s: %s", h.Root.Subject.CommonName, action(h.RootCreated), layout.CACert())
			a.log.Printf("Intermediate CA %q %s: %s", h.Intermediate.Subject.CommonName, action(h.IntermediateCreated), layout.IntermediateCert())
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", true, "replace existing CA files")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "report every written file")
	return cmd
}

func action(created bool) string {
	if created {
		return "created"
	}
	return "loaded"
}
