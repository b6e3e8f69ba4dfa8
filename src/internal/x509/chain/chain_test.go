// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x509ca "github.com/H0llyW00dzZ/devca/src/internal/x509/ca"
	x509chain "github.com/H0llyW00dzZ/devca/src/internal/x509/chain"
	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
)

var issuedAt = time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)

type hierarchy struct {
	root, intermediate, server *x509.Certificate
}

func newHierarchy(t *testing.T) hierarchy {
	t.Helper()

	key := func() *ecdsa.PrivateKey {
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		return k
	}
	clock := x509ca.WithClock(func() time.Time { return issuedAt })
	base := x509name.Name{Country: "AU", Organization: "Simple CA"}
	rootName := base.WithCommonName("Simple CA Root CA")
	intermediateName := base.WithCommonName("Simple CA Intermediate CA")
	rootKey, intermediateKey := key(), key()

	var h hierarchy

	params, err := x509ca.RootParams(rootName, rootKey, 7200, clock)
	require.NoError(t, err)
	h.root, err = x509ca.CreateRoot(params)
	require.NoError(t, err)

	params, err = x509ca.IntermediateParams(intermediateName, intermediateKey, rootName, rootKey, 3600, clock)
	require.NoError(t, err)
	h.intermediate, err = x509ca.CreateIntermediate(params, h.root)
	require.NoError(t, err)

	params, err = x509ca.ServerParams(base.WithCommonName("*.example.com"), key(), intermediateName, intermediateKey, 370, []string{"*.another.com"}, clock)
	require.NoError(t, err)
	h.server, err = x509ca.CreateServer(params, h.intermediate)
	require.NoError(t, err)

	return h
}

func TestChainOperations(t *testing.T) {
	h := newHierarchy(t)

	tests := []struct {
		name     string
		testFunc func(t *testing.T, ch *x509chain.Chain)
	}{
		{
			name: "VerifyChain - Valid Chain",
			testFunc: func(t *testing.T, ch *x509chain.Chain) {
				require.NoError(t, ch.VerifyChain(x509chain.VerifyOptions{
					CurrentTime: issuedAt.Add(time.Hour),
					DNSName:     "www.another.com",
				}))
			},
		},
		{
			name: "VerifyChain - Wrong Host",
			testFunc: func(t *testing.T, ch *x509chain.Chain) {
				err := ch.VerifyChain(x509chain.VerifyOptions{
					CurrentTime: issuedAt.Add(time.Hour),
					DNSName:     "example.org",
				})
				var hostErr x509.HostnameError
				assert.ErrorAs(t, err, &hostErr)
			},
		},
		{
			name: "VerifyChain - Leaf Expired",
			testFunc: func(t *testing.T, ch *x509chain.Chain) {
				err := ch.VerifyChain(x509chain.VerifyOptions{CurrentTime: issuedAt.AddDate(2, 0, 0)})
				var invalid x509.CertificateInvalidError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, x509.Expired, invalid.Reason)
			},
		},
		{
			name: "CheckLinks",
			testFunc: func(t *testing.T, ch *x509chain.Chain) {
				assert.NoError(t, ch.CheckLinks())
			},
		},
		{
			name: "IsRootNode",
			testFunc: func(t *testing.T, ch *x509chain.Chain) {
				assert.True(t, ch.IsRootNode(h.root))
				assert.False(t, ch.IsRootNode(h.intermediate))
				assert.False(t, ch.IsSelfSigned(h.server))
			},
		},
		{
			name: "Encode Bundle",
			testFunc: func(t *testing.T, ch *x509chain.Chain) {
				certs, err := ch.DecodeAll(ch.EncodeBundle())
				require.NoError(t, err)
				require.Len(t, certs, 3)
				assert.True(t, h.server.Equal(certs[0]))
				assert.True(t, h.root.Equal(certs[2]))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, x509chain.New(h.server, h.intermediate, h.root))
		})
	}
}

func TestCheckLinks_Broken(t *testing.T) {
	h := newHierarchy(t)
	other := newHierarchy(t)

	tests := []struct {
		name  string
		chain *x509chain.Chain
	}{
		{name: "Skipped Intermediate", chain: x509chain.New(h.server, h.root)},
		{name: "Foreign Root", chain: x509chain.New(h.server, h.intermediate, other.root)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.chain.CheckLinks(), x509chain.ErrBrokenLink)
		})
	}
}

func TestEmptyChain(t *testing.T) {
	ch := x509chain.New()

	assert.ErrorIs(t, ch.VerifyChain(x509chain.VerifyOptions{}), x509chain.ErrEmptyChain)
	assert.ErrorIs(t, ch.CheckLinks(), x509chain.ErrEmptyChain)
	assert.Equal(t, "No certificates in chain", ch.RenderASCIITree(issuedAt))
	table, err := ch.RenderTable(issuedAt)
	require.NoError(t, err)
	assert.Equal(t, "No certificates to display", table)
}
