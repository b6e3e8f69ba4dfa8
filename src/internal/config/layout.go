// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"path/filepath"
	"slices"
	"strings"
)

// File names inside the configuration directory.
const (
	CAKeyFile            = "ca.key.pem"
	CACertFile           = "ca.cert.pem"
	IntermediateKeyFile  = "intermediate.key.pem"
	IntermediateCertFile = "intermediate.cert.pem"
	LedgerFile           = "ledger.db"
)

// Layout maps each generated artifact to its path.
type Layout struct {
	Dir string
}

func (l Layout) path(name string) string { return filepath.Join(l.Dir, name) }

// CAKey returns the root private key path.
func (l Layout) CAKey() string { return l.path(CAKeyFile) }

// CACert returns the root certificate path.
func (l Layout) CACert() string { return l.path(CACertFile) }

// IntermediateKey returns the intermediate private key path.
func (l Layout) IntermediateKey() string { return l.path(IntermediateKeyFile) }

// IntermediateCert returns the intermediate certificate path.
func (l Layout) IntermediateCert() string { return l.path(IntermediateCertFile) }

// ServerKey returns the private key path for the server named commonName.
func (l Layout) ServerKey(commonName string) string {
	return l.path(ReversedDomain(commonName) + ".key.pem")
}

// ServerCert returns the certificate path for the server named commonName.
func (l Layout) ServerCert(commonName string) string {
	return l.path(ReversedDomain(commonName) + ".cert.pem")
}

// ServerChain returns the leaf-first bundle path for the server named
// commonName: the server certificate followed by the intermediate and root.
func (l Layout) ServerChain(commonName string) string {
	return l.path(ReversedDomain(commonName) + ".fullchain.pem")
}

// Ledger returns the issuance ledger database path.
func (l Layout) Ledger() string { return l.path(LedgerFile) }

// ReversedDomain reverses the dot-separated labels of name, so that
// "*.example.com" becomes "com.example.*" and files of one domain sort
// together. Path separators are replaced to keep the result a single
// file name.
func ReversedDomain(name string) string {
	labels := strings.Split(name, ".")
	slices.Reverse(labels)
	return strings.NewReplacer("/", "_", `\`, "_").Replace(strings.Join(labels, "."))
}
