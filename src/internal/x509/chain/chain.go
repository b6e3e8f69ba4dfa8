// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"
	"sync"
	"time"

	x509certs "github.com/H0llyW00dzZ/devca/src/internal/x509/certs"
)

var (
	// ErrEmptyChain indicates an operation on a chain without certificates.
	ErrEmptyChain = errors.New("x509chain: chain has no certificates")

	// ErrBrokenLink indicates that a certificate is not issued by its successor.
	ErrBrokenLink = errors.New("x509chain: certificate not issued by next in chain")
)

// Chain is an ordered [X.509] certificate path, leaf first and root last.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	mu    sync.RWMutex
	Certs []*x509.Certificate
	*x509certs.Codec
}

// New creates a Chain from certs, given leaf first.
func New(certs ...*x509.Certificate) *Chain {
	return &Chain{
		Certs: certs,
		Codec: x509certs.New(),
	}
}

// IsSelfSigned checks if a certificate is self-signed.
//
// It verifies the certificate's signature against itself.
func (ch *Chain) IsSelfSigned(cert *x509.Certificate) bool {
	return bytes.Equal(cert.RawIssuer, cert.RawSubject) && cert.CheckSignatureFrom(cert) == nil
}

// IsRootNode reports whether cert can anchor the chain: a self-signed CA
// certificate.
func (ch *Chain) IsRootNode(cert *x509.Certificate) bool {
	return cert.IsCA && ch.IsSelfSigned(cert)
}

// VerifyOptions tunes [Chain.VerifyChain].
//
// Fields:
//   - CurrentTime: Instant the validity windows are checked at; zero means now
//   - DNSName: Host name the leaf must cover; empty skips the check
type VerifyOptions struct {
	CurrentTime time.Time
	DNSName     string
}

// VerifyChain verifies the leaf against pools built from the chain itself:
// the last certificate is the only root, everything between is an
// intermediate. The leaf must be valid for server authentication.
//
// Returns:
//   - error: The original [x509.Certificate.Verify] error, preserving
//     diagnostics such as expiry or unknown authority
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) VerifyChain(opts VerifyOptions) error {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return ErrEmptyChain
	}

	roots := x509.NewCertPool()
	intermediates := x509.NewCertPool()
	for i, cert := range ch.Certs {
		if i == len(ch.Certs)-1 {
			roots.AddCert(cert)
		} else if i > 0 {
			intermediates.AddCert(cert)
		}
	}

	_, err := ch.Certs[0].Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		CurrentTime:   opts.CurrentTime,
		DNSName:       opts.DNSName,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	return err
}

// CheckLinks checks every adjacent pair of the chain: the issuer name must
// equal the next subject, the signature must verify with the next key and,
// when both identifiers are present, the authority key identifier must
// match the next subject key identifier.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) CheckLinks() error {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return ErrEmptyChain
	}

	for i := 0; i < len(ch.Certs)-1; i++ {
		child, parent := ch.Certs[i], ch.Certs[i+1]

		if !bytes.Equal(child.RawIssuer, parent.RawSubject) {
			return fmt.Errorf("%w: %q names issuer %q, next is %q",
				ErrBrokenLink, child.Subject.CommonName, child.Issuer.CommonName, parent.Subject.CommonName)
		}
		if err := child.CheckSignatureFrom(parent); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrBrokenLink, child.Subject.CommonName, err)
		}
		if len(child.AuthorityKeyId) > 0 && len(parent.SubjectKeyId) > 0 &&
			!bytes.Equal(child.AuthorityKeyId, parent.SubjectKeyId) {
			return fmt.Errorf("%w: %q: authority key identifier mismatch", ErrBrokenLink, child.Subject.CommonName)
		}
	}
	return nil
}

// EncodeBundle returns the whole chain as concatenated PEM, leaf first.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) EncodeBundle() []byte {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	return ch.Codec.EncodeChainPEM(ch.Certs...)
}
