// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/devca/src/internal/config"
	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
)

// subjectFlags are the per-certificate overrides of the configured identity.
type subjectFlags struct {
	country, state, locality, org, orgUnit string
}

// apply returns the configured identity with every changed flag applied.
// A flag set to the empty string removes the attribute.
func (f *subjectFlags) apply(cmd *cobra.Command, cfg *config.Config, commonName string) x509name.Name {
	name := cfg.Name().WithCommonName(commonName)
	for _, o := range []struct {
		flag  string
		value string
		field *string
	}{
		{"country", f.country, &name.Country},
		{"state", f.state, &name.Province},
		{"locality", f.locality, &name.Locality},
		{"org", f.org, &name.Organization},
		{"org-unit", f.orgUnit, &name.OrganizationalUnit},
	} {
		if cmd.Flags().Changed(o.flag) {
			*o.field = o.value
		}
	}
	return name
}

func (a *app) newServerCmd() *cobra.Command {
	var (
		subject subjectFlags
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "server COMMON_NAME ALT_NAME...",
		Short: "Issue a server certificate signed by the intermediate CA",
		Long: `Issue a TLS server certificate for COMMON_NAME.

The common name is always the first subject alternative name, followed by
every ALT_NAME; at least one ALT_NAME is required. The CA is created first when it does not exist yet. Subject
attributes default to the [ca] section of the configuration.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, auth, err := a.newAuthority(verbose)
			if err != nil {
				return err
			}

			name := subject.apply(cmd, cfg, args[0])
			issued, err := auth.IssueServer(cmd.Context(), name, args[1:])
			if err != nil {
				return err
			}

			a.log.Printf("Issued %q, serial %s, valid until %s",
				issued.Cert.Subject.CommonName, issued.Entry.Serial, issued.Cert.NotAfter.UTC().Format("2006-01-02"))
			a.log.Printf("Key: %s", issued.KeyPath)
			a.log.Printf("Certificate: %s", issued.CertPath)
			a.log.Printf("Full chain: %s", issued.ChainPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject.country, "country", "", "subject country (C)")
	cmd.Flags().StringVar(&subject.state, "state", "", "subject state or province (ST)")
	cmd.Flags().StringVar(&subject.locality, "locality", "", "subject locality (L)")
	cmd.Flags().StringVar(&subject.org, "org", "", "subject organization (O)")
	cmd.Flags().StringVar(&subject.orgUnit, "org-unit", "", "subject organizational unit (OU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "report every written file")
	return cmd
}
