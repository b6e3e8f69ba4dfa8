// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/H0llyW00dzZ/devca/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/devca/src/internal/x509/certs"
)

// ErrRender indicates that the table renderer failed.
var ErrRender = errors.New("x509chain: failed to render table")

// Validity status labels.
const (
	StatusValid       = "valid"
	StatusExpired     = "expired"
	StatusNotYetValid = "not yet valid"
)

// ValidityStatus classifies cert against now.
func ValidityStatus(cert *x509.Certificate, now time.Time) string {
	switch {
	case now.Before(cert.NotBefore):
		return StatusNotYetValid
	case now.After(cert.NotAfter):
		return StatusExpired
	default:
		return StatusValid
	}
}

// RenderASCIITree renders the chain root first, each issued certificate
// indented under its issuer:
//
//	[✓] Simple CA Root CA (Root CA)
//	└── [✓] Simple CA Intermediate CA (Intermediate CA)
//	    └── [✓] *.example.com (Server)
//
// Certificates outside their validity window at now are marked with ✗.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderASCIITree(now time.Time) string {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates in chain"
	}

	var result strings.Builder
	depth := 0
	for i := len(ch.Certs) - 1; i >= 0; i-- {
		cert := ch.Certs[i]

		if depth > 0 {
			result.WriteString(strings.Repeat("    ", depth-1))
			result.WriteString("└── ")
		}

		statusIcon := "✓"
		if ValidityStatus(cert, now) != StatusValid {
			statusIcon = "✗"
		}

		fmt.Fprintf(&result, "[%s] %s (%s)\n", statusIcon, cert.Subject.CommonName, ch.getCertificateRole(i))
		depth++
	}

	return result.String()
}

// RenderTable renders the chain leaf first as a markdown table with role,
// subject, issuer, serial, expiry, key and validity status at now.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderTable(now time.Time) (string, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) == 0 {
		return "No certificates to display", nil
	}

	rows := make([][]string, 0, len(ch.Certs))
	for i, cert := range ch.Certs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.getCertificateRole(i),
			cert.Subject.CommonName,
			cert.Issuer.CommonName,
			cert.SerialNumber.String(),
			cert.NotAfter.UTC().Format("2006-01-02"),
			keyDescription(cert),
			ValidityStatus(cert, now),
		})
	}

	return RenderMarkdown([]string{"#", "Role", "Subject", "Issuer", "Serial", "Valid Until", "Key", "Status"}, rows)
}

// RenderMarkdown renders header and rows as a markdown table, staging the
// output in the shared buffer pool. Renderer failures wrap [ErrRender].
func RenderMarkdown(header []string, rows [][]string) (string, error) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	table := tablewriter.NewTable(buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	return buf.String(), nil
}

// certificateJSON is one entry of [Chain.ToVisualizationJSON].
type certificateJSON struct {
	Index              int       `json:"index"`
	Role               string    `json:"role"`
	Subject            string    `json:"subject"`
	Issuer             string    `json:"issuer"`
	SerialNumber       string    `json:"serialNumber"`
	SignatureAlgorithm string    `json:"signatureAlgorithm"`
	PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
	KeySize            int       `json:"keySize"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	IsCA               bool      `json:"isCA"`
	DNSNames           []string  `json:"dnsNames,omitempty"`
	Fingerprint        string    `json:"fingerprintSHA256"`
	Status             string    `json:"status"`
}

type relationshipJSON struct {
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
	Type      string `json:"type"`
}

type visualizationJSON struct {
	Timestamp     string             `json:"timestamp"`
	ChainLength   int                `json:"chainLength"`
	Certificates  []certificateJSON  `json:"certificates"`
	Relationships []relationshipJSON `json:"relationships"`
}

// ToVisualizationJSON converts the chain to indented JSON: one object per
// certificate, leaf first, plus a signed_by relationship per link.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) ToVisualizationJSON(now time.Time) ([]byte, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	data := visualizationJSON{
		Timestamp:     now.UTC().Format(time.RFC3339),
		ChainLength:   len(ch.Certs),
		Certificates:  make([]certificateJSON, len(ch.Certs)),
		Relationships: make([]relationshipJSON, 0, len(ch.Certs)),
	}

	for i, cert := range ch.Certs {
		algo, size := keyInfo(cert)
		data.Certificates[i] = certificateJSON{
			Index:              i,
			Role:               ch.getCertificateRole(i),
			Subject:            cert.Subject.CommonName,
			Issuer:             cert.Issuer.CommonName,
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			PublicKeyAlgorithm: algo,
			KeySize:            size,
			NotBefore:          cert.NotBefore.UTC(),
			NotAfter:           cert.NotAfter.UTC(),
			IsCA:               cert.IsCA,
			DNSNames:           cert.DNSNames,
			Fingerprint:        x509certs.Fingerprint(cert),
			Status:             ValidityStatus(cert, now),
		}
		if i < len(ch.Certs)-1 {
			data.Relationships = append(data.Relationships, relationshipJSON{
				FromIndex: i,
				ToIndex:   i + 1,
				Type:      "signed_by",
			})
		}
	}

	return json.MarshalIndent(data, "", "  ")
}

func keyInfo(cert *x509.Certificate) (string, int) {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return "RSA", pub.Size() * 8
	case *ecdsa.PublicKey:
		return "ECDSA", pub.Curve.Params().BitSize
	default:
		return "unknown", 0
	}
}

func keyDescription(cert *x509.Certificate) string {
	algo, size := keyInfo(cert)
	if size == 0 {
		return algo
	}
	return fmt.Sprintf("%d-bit %s", size, algo)
}

// getCertificateRole names the position of the certificate at index.
func (ch *Chain) getCertificateRole(index int) string {
	cert := ch.Certs[index]
	switch {
	case len(ch.Certs) == 1 && ch.IsSelfSigned(cert):
		return "Self-Signed"
	case index == 0:
		return "Server"
	case ch.IsRootNode(cert):
		return "Root CA"
	default:
		return "Intermediate CA"
	}
}
