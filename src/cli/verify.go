// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	x509chain "github.com/H0llyW00dzZ/devca/src/internal/x509/chain"
)

func (a *app) newVerifyCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "verify COMMON_NAME",
		Short: "Verify a stored server certificate against the CA",
		Long: `Verify the stored certificate for COMMON_NAME against the stored
intermediate and root CA, then print the chain.

Formats: tree, table (markdown), json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validVerifyFormat(format) {
				return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
			}

			_, auth, err := a.newAuthority(false)
			if err != nil {
				return err
			}

			ch, verifyErr := auth.Verify(cmd.Context(), args[0])
			if ch != nil {
				if err := writeChain(cmd.OutOrStdout(), format, ch, time.Now()); err != nil {
					return errors.Join(verifyErr, err)
				}
			}
			if verifyErr != nil {
				return verifyErr
			}

			a.log.Printf("%q verified against %q", args[0], ch.Certs[len(ch.Certs)-1].Subject.CommonName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "tree", "output format: tree, table or json")
	return cmd
}

func validVerifyFormat(format string) bool {
	switch format {
	case "tree", "table", "json":
		return true
	}
	return false
}

func writeChain(w io.Writer, format string, ch *x509chain.Chain, now time.Time) error {
	var out string
	switch format {
	case "tree":
		out = ch.RenderASCIITree(now)
	case "table":
		table, err := ch.RenderTable(now)
		if err != nil {
			return err
		}
		out = table
	case "json":
		data, err := ch.ToVisualizationJSON(now)
		if err != nil {
			return err
		}
		out = string(data) + "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}
