// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/devca/src/internal/ledger"
	x509chain "github.com/H0llyW00dzZ/devca/src/internal/x509/chain"
)

func (a *app) newListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issued certificates",
		Long: `List the certificates recorded in the issuance ledger, oldest first.

Formats: text, table (markdown), json, yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, auth, err := a.newAuthority(false)
			if err != nil {
				return err
			}

			entries, err := auth.List()
			if err != nil {
				return err
			}
			return writeEntries(cmd.OutOrStdout(), output, entries, time.Now())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, table, json or yaml")
	return cmd
}

func writeEntries(w io.Writer, format string, entries []ledger.Entry, now time.Time) error {
	switch format {
	case "text":
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No certificates issued")
			return err
		}
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%-12s %-40s %-20s %s %s\n",
				e.Tier, e.CommonName, e.Serial, e.NotAfter.Format("2006-01-02"), entryStatus(e, now)); err != nil {
				return err
			}
		}
		return nil

	case "table":
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Tier, e.CommonName, e.Serial, e.NotAfter.Format("2006-01-02"), entryStatus(e, now), e.Path})
		}
		table, err := x509chain.RenderMarkdown([]string{"Tier", "Common Name", "Serial", "Valid Until", "Status", "Path"}, rows)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, table)
		return err

	case "json":
		if entries == nil {
			entries = []ledger.Entry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

func entryStatus(e ledger.Entry, now time.Time) string {
	if e.Expired(now) {
		return x509chain.StatusExpired
	}
	return x509chain.StatusValid
}
