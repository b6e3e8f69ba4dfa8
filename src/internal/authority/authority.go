// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package authority

import (
	"context"
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/devca/src/internal/config"
	"github.com/H0llyW00dzZ/devca/src/internal/keys"
	"github.com/H0llyW00dzZ/devca/src/internal/ledger"
	"github.com/H0llyW00dzZ/devca/src/internal/store"
	x509ca "github.com/H0llyW00dzZ/devca/src/internal/x509/ca"
	x509certs "github.com/H0llyW00dzZ/devca/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/devca/src/internal/x509/chain"
	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
	"github.com/H0llyW00dzZ/devca/src/logger"
)

var (
	// ErrKeyMismatch indicates that a stored key does not belong to the
	// stored certificate of the same tier.
	ErrKeyMismatch = errors.New("authority: private key does not match certificate")

	// ErrNotIssued indicates that no server certificate is stored for a
	// common name.
	ErrNotIssued = errors.New("authority: no certificate issued for common name")

	// ErrStaleBundle indicates that the stored full chain bundle differs from
	// the stored server certificate and hierarchy.
	ErrStaleBundle = errors.New("authority: full chain bundle does not match stored certificates")

	// ErrNotRecorded indicates that the stored server certificate is not the
	// latest one the ledger recorded for its common name.
	ErrNotRecorded = errors.New("authority: certificate not recorded in ledger")
)

// Hierarchy is the loaded or freshly created CA. The intermediate with its
// key and name is the signing context for server certificates.
//
// Fields:
//   - Root: The self-signed root certificate
//   - Intermediate: The intermediate certificate issued by Root
//   - IntermediateKey: The private key of Intermediate
//   - IntermediateName: The identity Intermediate was issued under
//   - RootCreated: Whether Root was generated by this call
//   - IntermediateCreated: Whether Intermediate was generated by this call
type Hierarchy struct {
	Root                *x509.Certificate
	Intermediate        *x509.Certificate
	IntermediateKey     crypto.Signer
	IntermediateName    x509name.Name
	RootCreated         bool
	IntermediateCreated bool
}

// Issued is the result of [Authority.IssueServer].
type Issued struct {
	Cert      *x509.Certificate
	KeyPath   string
	CertPath  string
	ChainPath string
	Entry     ledger.Entry
}

// Authority creates, loads and uses the hierarchy in one configuration
// directory.
type Authority struct {
	cfg     *config.Config
	layout  config.Layout
	store   *store.Store
	log     logger.Logger
	verbose bool
	clock   x509ca.Clock
}

// Option configures an [Authority].
type Option func(*Authority)

// WithLogger sets the logger write reports go to. Nothing is reported
// unless verbose is true.
func WithLogger(log logger.Logger, verbose bool) Option {
	return func(a *Authority) {
		a.log = log
		a.verbose = verbose
	}
}

// WithClock sets the source of issuance and verification instants.
func WithClock(clock x509ca.Clock) Option {
	return func(a *Authority) {
		a.clock = clock
	}
}

// New returns an Authority over cfg.Dir.
func New(cfg *config.Config, opts ...Option) *Authority {
	a := &Authority{
		cfg:    cfg,
		layout: cfg.Layout(),
		store:  store.New(),
		log:    logger.NewJSONLogger(io.Discard, true),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Layout returns the file layout the authority reads and writes.
func (a *Authority) Layout() config.Layout { return a.layout }

// LoadCA returns the signing hierarchy, creating what is missing.
//
// The root is created when reset is set or either root file is missing,
// otherwise it is loaded. The intermediate is created when the root was
// created or either intermediate file is missing. Whenever the intermediate
// is created the ledger is cleared, since certificates of the previous
// hierarchy no longer chain, and both CA certificates are recorded anew.
//
// Parameters:
//   - ctx: Checked before each key generation
//   - reset: Regenerate the whole hierarchy even when files exist
//
// Returns:
//   - *Hierarchy: The signing context for server certificates
//   - error: Key, store, build or ledger failures; files written before the
//     failure remain
func (a *Authority) LoadCA(ctx context.Context, reset bool) (*Hierarchy, error) {
	h := &Hierarchy{IntermediateName: a.cfg.IntermediateName()}
	rootName := a.cfg.RootName()

	var (
		rootKey crypto.Signer
		err     error
	)
	if reset || !a.exists(a.layout.CAKey(), a.layout.CACert()) {
		rootKey, h.Root, err = a.createRoot(ctx, rootName)
		h.RootCreated = true
	} else {
		rootKey, h.Root, err = a.loadPair(a.layout.CAKey(), a.layout.CACert())
	}
	if err != nil {
		return nil, err
	}

	if h.RootCreated || !a.exists(a.layout.IntermediateKey(), a.layout.IntermediateCert()) {
		h.IntermediateKey, h.Intermediate, err = a.createIntermediate(ctx, h.IntermediateName, rootName, rootKey, h.Root)
		h.IntermediateCreated = true
	} else {
		h.IntermediateKey, h.Intermediate, err = a.loadPair(a.layout.IntermediateKey(), a.layout.IntermediateCert())
	}
	if err != nil {
		return nil, err
	}

	if h.IntermediateCreated {
		if err := a.restartLedger(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (a *Authority) createRoot(ctx context.Context, name x509name.Name) (crypto.Signer, *x509.Certificate, error) {
	key, err := a.generateKey(ctx, a.cfg.Keys.CA)
	if err != nil {
		return nil, nil, err
	}
	if err := a.writeKey(a.layout.CAKey(), key); err != nil {
		return nil, nil, err
	}

	params, err := x509ca.RootParams(name, key, a.cfg.Validity.Root, x509ca.WithClock(a.clock))
	if err != nil {
		return nil, nil, err
	}
	cert, err := x509ca.CreateRoot(params)
	if err != nil {
		return nil, nil, err
	}
	if err := a.writeCert(a.layout.CACert(), cert); err != nil {
		return nil, nil, err
	}
	return key, cert, nil
}

func (a *Authority) createIntermediate(ctx context.Context, name, rootName x509name.Name, rootKey crypto.Signer, root *x509.Certificate) (crypto.Signer, *x509.Certificate, error) {
	key, err := a.generateKey(ctx, a.cfg.Keys.CA)
	if err != nil {
		return nil, nil, err
	}
	if err := a.writeKey(a.layout.IntermediateKey(), key); err != nil {
		return nil, nil, err
	}

	params, err := x509ca.IntermediateParams(name, key, rootName, rootKey, a.cfg.Validity.Intermediate, x509ca.WithClock(a.clock))
	if err != nil {
		return nil, nil, err
	}
	cert, err := x509ca.CreateIntermediate(params, root)
	if err != nil {
		return nil, nil, err
	}
	if err := a.writeCert(a.layout.IntermediateCert(), cert); err != nil {
		return nil, nil, err
	}
	return key, cert, nil
}

// IssueServer issues a server certificate for name, with name's common
// name as the first subject alternative name followed by altNames. Next to
// the certificate it writes a leaf-first full chain bundle.
//
// The server key is generated and written before the CA is loaded, so a
// CA failure leaves the new key behind. The CA is loaded without reset and
// created first if it does not exist yet.
//
// Returns:
//   - *Issued: The certificate, its file paths and the ledger entry
//   - error: [x509name.ErrMissingCommonName] before anything is written,
//     otherwise key, store, build or ledger failures
func (a *Authority) IssueServer(ctx context.Context, name x509name.Name, altNames []string) (*Issued, error) {
	if strings.TrimSpace(name.CommonName) == "" {
		return nil, x509name.ErrMissingCommonName
	}

	key, err := a.generateKey(ctx, a.cfg.Keys.Server)
	if err != nil {
		return nil, err
	}
	keyPath := a.layout.ServerKey(name.CommonName)
	if err := a.writeKey(keyPath, key); err != nil {
		return nil, err
	}

	h, err := a.LoadCA(ctx, false)
	if err != nil {
		return nil, err
	}

	params, err := x509ca.ServerParams(name, key, h.IntermediateName, h.IntermediateKey, a.cfg.Validity.Server, altNames, x509ca.WithClock(a.clock))
	if err != nil {
		return nil, err
	}
	cert, err := x509ca.CreateServer(params, h.Intermediate)
	if err != nil {
		return nil, err
	}

	certPath := a.layout.ServerCert(name.CommonName)
	if err := a.writeCert(certPath, cert); err != nil {
		return nil, err
	}

	chainPath := a.layout.ServerChain(name.CommonName)
	res, err := a.store.WriteFile(chainPath, x509chain.New(cert, h.Intermediate, h.Root).EncodeBundle(), store.CertMode)
	if err != nil {
		return nil, err
	}
	a.report(res)

	entry, err := a.record(ledger.NewEntry(x509ca.TierServer, cert, certPath))
	if err != nil {
		return nil, err
	}
	return &Issued{Cert: cert, KeyPath: keyPath, CertPath: certPath, ChainPath: chainPath, Entry: entry}, nil
}

// Verify loads the stored server certificate for commonName with the stored
// hierarchy and checks every link and the path up to the root at the
// current instant. A chain that verifies must also match the full chain
// bundle and the latest ledger entry for commonName.
//
// The chain is returned whenever all three certificates could be read, also
// when verification fails, so callers can show what is broken.
func (a *Authority) Verify(ctx context.Context, commonName string) (*x509chain.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	certPath := a.layout.ServerCert(commonName)
	if !a.store.Exists(certPath) {
		return nil, fmt.Errorf("%w: %q", ErrNotIssued, commonName)
	}

	var certs []*x509.Certificate
	for _, path := range []string{certPath, a.layout.IntermediateCert(), a.layout.CACert()} {
		cert, err := a.store.ReadCert(path)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}

	ch := x509chain.New(certs...)
	if err := ch.CheckLinks(); err != nil {
		return ch, err
	}
	if err := ch.VerifyChain(x509chain.VerifyOptions{
		CurrentTime: a.clock(),
		DNSName:     probeHost(commonName),
	}); err != nil {
		return ch, err
	}

	if err := a.checkBundle(commonName, certs); err != nil {
		return ch, err
	}
	return ch, a.checkRecorded(commonName, certs[0])
}

// checkBundle compares the full chain bundle of commonName with certs.
func (a *Authority) checkBundle(commonName string, certs []*x509.Certificate) error {
	bundle, err := a.store.ReadChain(a.layout.ServerChain(commonName))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStaleBundle, err)
	}
	if len(bundle) != len(certs) {
		return fmt.Errorf("%w: %d certificates, want %d", ErrStaleBundle, len(bundle), len(certs))
	}
	for i, cert := range certs {
		if !cert.Equal(bundle[i]) {
			return fmt.Errorf("%w: %q differs", ErrStaleBundle, cert.Subject.CommonName)
		}
	}
	return nil
}

// checkRecorded compares leaf with the latest ledger entry for commonName.
func (a *Authority) checkRecorded(commonName string, leaf *x509.Certificate) error {
	l, err := ledger.Open(a.layout.Ledger())
	if err != nil {
		return err
	}
	defer l.Close()

	entry, ok, err := l.Latest(commonName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotRecorded, commonName)
	}
	if fingerprint := x509certs.Fingerprint(leaf); entry.Fingerprint != fingerprint {
		return fmt.Errorf("%w: %q has %s, ledger has %s", ErrNotRecorded, commonName, fingerprint, entry.Fingerprint)
	}
	return nil
}

// probeHost returns a host name the certificate for commonName must cover.
// A leading wildcard label is replaced, as host names never contain one.
func probeHost(commonName string) string {
	if rest, ok := strings.CutPrefix(commonName, "*."); ok {
		return "www." + rest
	}
	return commonName
}

// List returns the ledger in issuance order.
func (a *Authority) List() ([]ledger.Entry, error) {
	l, err := ledger.Open(a.layout.Ledger())
	if err != nil {
		return nil, err
	}
	defer l.Close()

	return l.List()
}

func (a *Authority) restartLedger(h *Hierarchy) error {
	l, err := ledger.Open(a.layout.Ledger())
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.Reset(); err != nil {
		return err
	}
	if _, err := l.Record(ledger.NewEntry(x509ca.TierRoot, h.Root, a.layout.CACert())); err != nil {
		return err
	}
	_, err = l.Record(ledger.NewEntry(x509ca.TierIntermediate, h.Intermediate, a.layout.IntermediateCert()))
	return err
}

func (a *Authority) record(e ledger.Entry) (ledger.Entry, error) {
	l, err := ledger.Open(a.layout.Ledger())
	if err != nil {
		return ledger.Entry{}, err
	}
	defer l.Close()

	return l.Record(e)
}

func (a *Authority) generateKey(ctx context.Context, bits int) (crypto.Signer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := keys.Generate(bits)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (a *Authority) exists(paths ...string) bool {
	for _, path := range paths {
		if !a.store.Exists(path) {
			return false
		}
	}
	return true
}

// loadPair reads a key and its certificate and checks that they belong
// together.
func (a *Authority) loadPair(keyPath, certPath string) (crypto.Signer, *x509.Certificate, error) {
	key, err := a.store.ReadKey(keyPath)
	if err != nil {
		return nil, nil, err
	}
	cert, err := a.store.ReadCert(certPath)
	if err != nil {
		return nil, nil, err
	}

	pub, ok := cert.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	if !ok || !pub.Equal(key.Public()) {
		return nil, nil, fmt.Errorf("%w: %s", ErrKeyMismatch, certPath)
	}
	return key, cert, nil
}

func (a *Authority) writeKey(path string, key crypto.Signer) error {
	res, err := a.store.WriteKey(path, key)
	if err != nil {
		return err
	}
	a.report(res)
	return nil
}

func (a *Authority) writeCert(path string, cert *x509.Certificate) error {
	res, err := a.store.WriteCert(path, cert)
	if err != nil {
		return err
	}
	a.report(res)
	return nil
}

func (a *Authority) report(res store.WriteResult) {
	if a.verbose {
		a.log.Println(res.String())
	}
}
