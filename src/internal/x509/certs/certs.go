// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"strings"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

// BlockType is the PEM label of an encoded certificate.
const BlockType = "CERTIFICATE"

var (
	// ErrInvalidBlockType indicates that the PEM block type is not [BlockType].
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("x509certs: failed to parse PKCS7 data")

	// ErrNoCertificates indicates that the input held no certificate at all.
	ErrNoCertificates = errors.New("x509certs: no certificates found")
)

// Codec reads and writes the certificate files of the hierarchy.
//
// Decoding accepts PEM, raw DER and PKCS7 bundles, so a CA certificate that
// was converted by another tool still loads. Encoding always produces PEM.
type Codec struct {
	blockType string
}

// New returns a Codec for [BlockType] PEM blocks.
func New() *Codec {
	return &Codec{blockType: BlockType}
}

// IsPEM reports whether data starts with a PEM block.
func (c *Codec) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// Decode returns the first certificate in data.
func (c *Codec) Decode(data []byte) (*x509.Certificate, error) {
	if c.IsPEM(data) {
		block, _ := pem.Decode(data)
		if block.Type != c.blockType {
			return nil, ErrInvalidBlockType
		}
		data = block.Bytes
	}

	if cert, err := x509.ParseCertificate(data); err == nil {
		return cert, nil
	}

	certs, err := c.decodePKCS7(data)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// DecodeAll returns every certificate in data, in input order.
// PEM input may concatenate any number of blocks; all must be certificates.
func (c *Codec) DecodeAll(data []byte) ([]*x509.Certificate, error) {
	if !c.IsPEM(data) {
		if certs, err := x509.ParseCertificates(data); err == nil && len(certs) > 0 {
			return certs, nil
		}
		return c.decodePKCS7(data)
	}

	var certs []*x509.Certificate
	for {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != c.blockType {
			return nil, ErrInvalidBlockType
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrParseCertificate
		}

		certs = append(certs, cert)
		data = rest
	}

	if len(certs) == 0 {
		return nil, ErrNoCertificates
	}
	return certs, nil
}

func (c *Codec) decodePKCS7(data []byte) ([]*x509.Certificate, error) {
	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificates
	}
	return p.Content.SignedData.Certificates, nil
}

// EncodePEM encodes a certificate as a single PEM block.
func (c *Codec) EncodePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  c.blockType,
		Bytes: cert.Raw,
	})
}

// EncodeChainPEM concatenates the PEM encodings of certs in the given order.
// Callers pass the leaf first to produce a bundle servers can load directly.
func (c *Codec) EncodeChainPEM(certs ...*x509.Certificate) []byte {
	var data []byte
	for _, cert := range certs {
		data = append(data, c.EncodePEM(cert)...)
	}
	return data
}

// Fingerprint returns the SHA-256 digest of the DER encoding as upper-case
// hex pairs joined by colons, the format openssl x509 -fingerprint prints.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	encoded := strings.ToUpper(hex.EncodeToString(sum[:]))

	var b strings.Builder
	b.Grow(len(encoded) + len(encoded)/2)
	for i := 0; i < len(encoded); i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(encoded[i : i+2])
	}
	return b.String()
}
