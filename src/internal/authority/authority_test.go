// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package authority_test

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/devca/src/internal/authority"
	"github.com/H0llyW00dzZ/devca/src/internal/config"
	"github.com/H0llyW00dzZ/devca/src/internal/keys"
	"github.com/H0llyW00dzZ/devca/src/internal/ledger"
	"github.com/H0llyW00dzZ/devca/src/internal/store"
	x509chain "github.com/H0llyW00dzZ/devca/src/internal/x509/chain"
	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
	"github.com/H0llyW00dzZ/devca/src/logger"
)

// newConfig loads a configuration in a fresh directory with CA keys small
// enough for tests.
func newConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DEVCA_KEYS_CA", "2048")
	t.Setenv("DEVCA_CA_COUNTRY", "AU")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func TestLoadCA(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t)
	auth := authority.New(cfg)
	layout := auth.Layout()

	first, err := auth.LoadCA(ctx, false)
	require.NoError(t, err)

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Fresh Directory Creates Both Tiers",
			testFunc: func(t *testing.T) {
				assert.True(t, first.RootCreated)
				assert.True(t, first.IntermediateCreated)
				assert.Equal(t, "Simple CA Root CA", first.Root.Subject.CommonName)
				assert.Equal(t, "Simple CA Intermediate CA", first.Intermediate.Subject.CommonName)
				assert.Equal(t, []string{"AU"}, first.Intermediate.Subject.Country)
				require.NoError(t, first.Intermediate.CheckSignatureFrom(first.Root))

				for _, path := range []string{layout.CAKey(), layout.IntermediateKey()} {
					info, err := os.Stat(path)
					require.NoError(t, err)
					assert.Equal(t, store.KeyMode, info.Mode().Perm(), path)
				}
				for _, path := range []string{layout.CACert(), layout.IntermediateCert()} {
					info, err := os.Stat(path)
					require.NoError(t, err)
					assert.Equal(t, store.CertMode, info.Mode().Perm(), path)
				}
			},
		},
		{
			name: "Existing Files Are Loaded",
			testFunc: func(t *testing.T) {
				again, err := auth.LoadCA(ctx, false)
				require.NoError(t, err)

				assert.False(t, again.RootCreated)
				assert.False(t, again.IntermediateCreated)
				assert.True(t, first.Root.Equal(again.Root))
				assert.True(t, first.Intermediate.Equal(again.Intermediate))

				entries, err := auth.List()
				require.NoError(t, err)
				assert.Len(t, entries, 2)
			},
		},
		{
			name: "Ledger Holds Both CA Certificates",
			testFunc: func(t *testing.T) {
				entries, err := auth.List()
				require.NoError(t, err)
				require.Len(t, entries, 2)
				assert.Equal(t, "root", entries[0].Tier)
				assert.Equal(t, "1000", entries[0].Serial)
				assert.Equal(t, layout.CACert(), entries[0].Path)
				assert.Equal(t, "intermediate", entries[1].Tier)
				assert.Equal(t, "10000", entries[1].Serial)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}

func TestLoadCA_Reset(t *testing.T) {
	ctx := context.Background()
	auth := authority.New(newConfig(t))

	first, err := auth.LoadCA(ctx, false)
	require.NoError(t, err)
	_, err = auth.IssueServer(ctx, x509name.Name{Organization: "Simple CA", CommonName: "localhost"}, nil)
	require.NoError(t, err)

	reset, err := auth.LoadCA(ctx, true)
	require.NoError(t, err)

	assert.True(t, reset.RootCreated)
	assert.True(t, reset.IntermediateCreated)
	assert.False(t, first.Root.Equal(reset.Root))
	assert.Equal(t, first.Root.RawSubject, reset.Root.RawSubject)

	entries, err := auth.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2, "server entry of the old hierarchy is dropped")
}

func TestLoadCA_MissingIntermediate(t *testing.T) {
	ctx := context.Background()
	auth := authority.New(newConfig(t))

	first, err := auth.LoadCA(ctx, false)
	require.NoError(t, err)
	require.NoError(t, os.Remove(auth.Layout().IntermediateCert()))

	again, err := auth.LoadCA(ctx, false)
	require.NoError(t, err)

	assert.False(t, again.RootCreated)
	assert.True(t, again.IntermediateCreated)
	assert.True(t, first.Root.Equal(again.Root))
	assert.False(t, first.Intermediate.Equal(again.Intermediate))
	require.NoError(t, again.Intermediate.CheckSignatureFrom(first.Root))
}

func TestLoadCA_KeyMismatch(t *testing.T) {
	ctx := context.Background()
	auth := authority.New(newConfig(t))

	_, err := auth.LoadCA(ctx, false)
	require.NoError(t, err)

	other, err := keys.Generate(keys.MinBits)
	require.NoError(t, err)
	_, err = store.New().WriteKey(auth.Layout().CAKey(), other)
	require.NoError(t, err)

	_, err = auth.LoadCA(ctx, false)
	assert.ErrorIs(t, err, authority.ErrKeyMismatch)
}

func TestLoadCA_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	auth := authority.New(newConfig(t))
	_, err := auth.LoadCA(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, auth.Layout().CAKey())
}

func TestIssueServer(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t)
	auth := authority.New(cfg)

	issued, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("*.example.com"), []string{"*.another.com"})
	require.NoError(t, err)

	t.Run("Creates Missing CA", func(t *testing.T) {
		assert.FileExists(t, auth.Layout().CACert())
		assert.FileExists(t, auth.Layout().IntermediateCert())
	})

	t.Run("Files", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(issued.KeyPath, "com.example.*.key.pem"))
		assert.True(t, strings.HasSuffix(issued.CertPath, "com.example.*.cert.pem"))

		cert, err := store.New().ReadCert(issued.CertPath)
		require.NoError(t, err)
		assert.True(t, issued.Cert.Equal(cert))

		key, err := store.New().ReadKey(issued.KeyPath)
		require.NoError(t, err)
		assert.Equal(t, keys.ServerBits, key.Public().(interface{ Size() int }).Size()*8)
	})

	t.Run("Full Chain Bundle", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(issued.ChainPath, "com.example.*.fullchain.pem"))

		info, err := os.Stat(issued.ChainPath)
		require.NoError(t, err)
		assert.Equal(t, store.CertMode, info.Mode().Perm())

		bundle, err := store.New().ReadChain(issued.ChainPath)
		require.NoError(t, err)
		require.Len(t, bundle, 3)
		assert.True(t, issued.Cert.Equal(bundle[0]))
		assert.Equal(t, "Simple CA Intermediate CA", bundle[1].Subject.CommonName)
		assert.Equal(t, "Simple CA Root CA", bundle[2].Subject.CommonName)
	})

	t.Run("Certificate", func(t *testing.T) {
		assert.Equal(t, "*.example.com", issued.Cert.Subject.CommonName)
		assert.Equal(t, []string{"*.example.com", "*.another.com"}, issued.Cert.DNSNames)
		assert.Equal(t, "Simple CA Intermediate CA", issued.Cert.Issuer.CommonName)
		assert.Equal(t, time.Duration(cfg.Validity.Server)*24*time.Hour, issued.Cert.NotAfter.Sub(issued.Cert.NotBefore))
	})

	t.Run("Ledger", func(t *testing.T) {
		entries, err := auth.List()
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, issued.Entry.ID, entries[2].ID)
		assert.Equal(t, issued.Entry.Fingerprint, entries[2].Fingerprint)
		assert.Equal(t, "server", entries[2].Tier)
		assert.Equal(t, []string{"*.example.com", "*.another.com"}, entries[2].SubjectAltNames)
	})

	t.Run("Verify", func(t *testing.T) {
		ch, err := auth.Verify(ctx, "*.example.com")
		require.NoError(t, err)
		require.Len(t, ch.Certs, 3)
		assert.Contains(t, ch.RenderASCIITree(time.Now()), "[✓] *.example.com (Server)")
	})
}

func TestIssueServer_MissingCommonName(t *testing.T) {
	auth := authority.New(newConfig(t))

	_, err := auth.IssueServer(context.Background(), x509name.Name{Organization: "Simple CA"}, nil)
	assert.ErrorIs(t, err, x509name.ErrMissingCommonName)
	assert.NoFileExists(t, auth.Layout().CAKey())
}

func TestIssueServer_VerboseReportsWrites(t *testing.T) {
	var buf bytes.Buffer
	auth := authority.New(newConfig(t), authority.WithLogger(logger.NewJSONLogger(&buf, false), true))

	_, err := auth.IssueServer(context.Background(), x509name.Name{CommonName: "localhost"}, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7, "server key, root pair, intermediate pair, server certificate and bundle")
	assert.Contains(t, lines[0], "localhost.key.pem")
	assert.Contains(t, lines[0], "(0600)")
	assert.Contains(t, lines[5], "localhost.cert.pem")
	assert.Contains(t, lines[5], "(0644)")
	assert.Contains(t, lines[6], "localhost.fullchain.pem")
	assert.Contains(t, lines[6], "(0644)")
}

func TestIssueServer_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	auth := authority.New(newConfig(t), authority.WithLogger(logger.NewJSONLogger(&buf, false), false))

	_, err := auth.IssueServer(context.Background(), x509name.Name{CommonName: "localhost"}, nil)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t)

	tests := []struct {
		name     string
		testFunc func(t *testing.T, auth *authority.Authority)
	}{
		{
			name: "Not Issued",
			testFunc: func(t *testing.T, auth *authority.Authority) {
				_, err := auth.Verify(ctx, "nothing.example")
				assert.ErrorIs(t, err, authority.ErrNotIssued)
			},
		},
		{
			name: "Stale After Reset",
			testFunc: func(t *testing.T, auth *authority.Authority) {
				_, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("stale.example"), nil)
				require.NoError(t, err)
				_, err = auth.LoadCA(ctx, true)
				require.NoError(t, err)

				ch, err := auth.Verify(ctx, "stale.example")
				assert.ErrorIs(t, err, x509chain.ErrBrokenLink)
				require.NotNil(t, ch)
				assert.Len(t, ch.Certs, 3)
			},
		},
		{
			name: "Bundle Replaced",
			testFunc: func(t *testing.T, auth *authority.Authority) {
				issued, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("bundle.example"), nil)
				require.NoError(t, err)

				_, err = store.New().WriteCert(issued.ChainPath, issued.Cert)
				require.NoError(t, err)

				ch, err := auth.Verify(ctx, "bundle.example")
				assert.ErrorIs(t, err, authority.ErrStaleBundle)
				assert.NotNil(t, ch)
			},
		},
		{
			name: "Bundle Missing",
			testFunc: func(t *testing.T, auth *authority.Authority) {
				issued, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("nobundle.example"), nil)
				require.NoError(t, err)
				require.NoError(t, os.Remove(issued.ChainPath))

				_, err = auth.Verify(ctx, "nobundle.example")
				assert.ErrorIs(t, err, authority.ErrStaleBundle)
				assert.ErrorIs(t, err, fs.ErrNotExist)
			},
		},
		{
			name: "Missing From Ledger",
			testFunc: func(t *testing.T, auth *authority.Authority) {
				_, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("unrecorded.example"), nil)
				require.NoError(t, err)

				l, err := ledger.Open(auth.Layout().Ledger())
				require.NoError(t, err)
				require.NoError(t, l.Reset())
				require.NoError(t, l.Close())

				_, err = auth.Verify(ctx, "unrecorded.example")
				assert.ErrorIs(t, err, authority.ErrNotRecorded)
			},
		},
		{
			name: "Superseded Certificate Restored",
			testFunc: func(t *testing.T, auth *authority.Authority) {
				first, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("reissued.example"), nil)
				require.NoError(t, err)
				oldCert, err := os.ReadFile(first.CertPath)
				require.NoError(t, err)
				oldBundle, err := os.ReadFile(first.ChainPath)
				require.NoError(t, err)

				_, err = auth.IssueServer(ctx, cfg.Name().WithCommonName("reissued.example"), nil)
				require.NoError(t, err)
				_, err = auth.Verify(ctx, "reissued.example")
				require.NoError(t, err)

				require.NoError(t, os.WriteFile(first.CertPath, oldCert, store.CertMode))
				require.NoError(t, os.WriteFile(first.ChainPath, oldBundle, store.CertMode))

				ch, err := auth.Verify(ctx, "reissued.example")
				assert.ErrorIs(t, err, authority.ErrNotRecorded)
				require.NotNil(t, ch)
				assert.True(t, first.Cert.Equal(ch.Certs[0]))
			},
		},
		{
			name: "Expired",
			testFunc: func(t *testing.T, auth *authority.Authority) {
				_, err := auth.IssueServer(ctx, cfg.Name().WithCommonName("old.example"), nil)
				require.NoError(t, err)

				later := authority.New(cfg, authority.WithClock(func() time.Time {
					return time.Now().AddDate(0, 0, cfg.Validity.Server+1)
				}))
				_, err = later.Verify(ctx, "old.example")
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t, authority.New(cfg))
		})
	}
}
