// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ca_test

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	x509ca "github.com/H0llyW00dzZ/devca/src/internal/x509/ca"
	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
)

var (
	oidSubjectKeyID     = asn1.ObjectIdentifier{2, 5, 29, 14}
	oidKeyUsage         = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidSubjectAltName   = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidAuthorityKeyID   = asn1.ObjectIdentifier{2, 5, 29, 35}
	oidExtKeyUsage      = asn1.ObjectIdentifier{2, 5, 29, 37}
	oidNetscapeCertType = asn1.ObjectIdentifier{2, 16, 840, 1, 113730, 1, 1}
	oidNetscapeComment  = asn1.ObjectIdentifier{2, 16, 840, 1, 113730, 1, 13}
)

// fixedNow is the issuance instant used across tests.
var fixedNow = time.Date(2026, time.March, 14, 9, 26, 53, 589793238, time.UTC)

func fixedClock() x509ca.Option {
	return x509ca.WithClock(func() time.Time { return fixedNow })
}

func caName() x509name.Name {
	return x509name.Name{
		Country:            "AU",
		Province:           "TAS",
		Locality:           "Hobart",
		Organization:       "Simple CA",
		OrganizationalUnit: "Dev",
	}
}

func rsaKey(t *testing.T) crypto.Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func ecKey(t *testing.T) crypto.Signer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func extensionIDs(exts []pkix.Extension) []asn1.ObjectIdentifier {
	ids := make([]asn1.ObjectIdentifier, 0, len(exts))
	for _, ext := range exts {
		ids = append(ids, ext.Id)
	}
	return ids
}

type hierarchy struct {
	rootKey, intermediateKey, serverKey crypto.Signer
	root, intermediate, server          *x509.Certificate
	serverParams                        *x509ca.CertParams
}

// buildHierarchy issues root, intermediate and server with the given
// validity periods, all at fixedNow.
func buildHierarchy(t *testing.T, rootDays, intermediateDays, serverDays int, cn string, altNames []string) hierarchy {
	t.Helper()

	h := hierarchy{rootKey: rsaKey(t), intermediateKey: rsaKey(t), serverKey: rsaKey(t)}

	rootName := caName().WithCommonName("Simple CA Root CA")
	rootParams, err := x509ca.RootParams(rootName, h.rootKey, rootDays, fixedClock())
	require.NoError(t, err)
	h.root, err = x509ca.CreateRoot(rootParams)
	require.NoError(t, err)

	intermediateName := caName().WithCommonName("Simple CA Intermediate CA")
	intermediateParams, err := x509ca.IntermediateParams(intermediateName, h.intermediateKey, rootName, h.rootKey, intermediateDays, fixedClock())
	require.NoError(t, err)
	h.intermediate, err = x509ca.CreateIntermediate(intermediateParams, h.root)
	require.NoError(t, err)

	serverName := caName().WithCommonName(cn)
	h.serverParams, err = x509ca.ServerParams(serverName, h.serverKey, intermediateName, h.intermediateKey, serverDays, altNames, fixedClock())
	require.NoError(t, err)
	h.server, err = x509ca.CreateServer(h.serverParams, h.intermediate)
	require.NoError(t, err)

	return h
}
