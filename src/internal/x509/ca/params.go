// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ca

import (
	"crypto"
	"fmt"
	"math/big"
	"slices"
	"time"

	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
)

// Clock returns the current wall-clock time.
type Clock func() time.Time

// Option configures parameter construction.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces time.Now as the source of the issuance instant and of
// server serial numbers.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CertParams is the immutable parameter bundle for one certificate.
//
// The issuance instant is captured once when the bundle is built. Both
// validity bounds derive from it, so the two phases of a root build and the
// not-before/not-after pair always agree.
type CertParams struct {
	subject   Entity
	issuer    *Entity
	validDays int
	serial    *big.Int
	sans      []string
	issuedAt  time.Time
}

// Subject returns the entity the certificate is issued to.
func (p *CertParams) Subject() Entity { return p.subject }

// Issuer returns the signing entity, which is the subject itself when the
// certificate is self-issued.
func (p *CertParams) Issuer() Entity {
	if p.issuer == nil {
		return p.subject
	}
	return *p.issuer
}

// SelfIssued reports whether no explicit issuer was set.
func (p *CertParams) SelfIssued() bool { return p.issuer == nil }

// ValidDays returns the validity length in days.
func (p *CertParams) ValidDays() int { return p.validDays }

// Serial returns a copy of the serial number.
func (p *CertParams) Serial() *big.Int { return new(big.Int).Set(p.serial) }

// SubjectAltNames returns a copy of the DNS names for the SAN extension.
func (p *CertParams) SubjectAltNames() []string { return slices.Clone(p.sans) }

// ValidFrom returns the not-before bound.
func (p *CertParams) ValidFrom() time.Time { return p.issuedAt }

// ValidTo returns the not-after bound, exactly ValidDays days after ValidFrom.
func (p *CertParams) ValidTo() time.Time {
	return p.issuedAt.Add(time.Duration(p.validDays) * 24 * time.Hour)
}

// newParams captures the issuance instant. Certificates encode validity with
// second precision, so the instant is truncated to keep decoded windows exact.
func newParams(subject Entity, issuer *Entity, validDays int, serial *big.Int, sans []string, now time.Time) (*CertParams, error) {
	if validDays <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidValidity, validDays)
	}
	return &CertParams{
		subject:   subject,
		issuer:    issuer,
		validDays: validDays,
		serial:    serial,
		sans:      sans,
		issuedAt:  now.UTC().Truncate(time.Second),
	}, nil
}

// RootParams returns parameters for the self-signed root CA.
// The serial is [RootSerial] and there are no subject alternative names.
func RootParams(name x509name.Name, key crypto.Signer, validDays int, opts ...Option) (*CertParams, error) {
	o := buildOptions(opts)

	subject, err := newEntity(name, key)
	if err != nil {
		return nil, err
	}

	return newParams(subject, nil, validDays, new(big.Int).Set(RootSerial), nil, o.clock())
}

// IntermediateParams returns parameters for the intermediate CA, issued by
// the root identified by rootName and rootKey.
// The serial is [IntermediateSerial] and there are no subject alternative names.
func IntermediateParams(name x509name.Name, key crypto.Signer, rootName x509name.Name, rootKey crypto.Signer, validDays int, opts ...Option) (*CertParams, error) {
	o := buildOptions(opts)

	subject, err := newEntity(name, key)
	if err != nil {
		return nil, err
	}
	issuer, err := newEntity(rootName, rootKey)
	if err != nil {
		return nil, err
	}

	return newParams(subject, &issuer, validDays, new(big.Int).Set(IntermediateSerial), nil, o.clock())
}

// ServerParams returns parameters for a server certificate issued by the
// intermediate identified by issuerName and issuerKey.
//
// The serial is the issuance instant in Unix nanoseconds. The subject
// alternative names start with the subject common name, followed by altNames
// in the given order.
func ServerParams(name x509name.Name, key crypto.Signer, issuerName x509name.Name, issuerKey crypto.Signer, validDays int, altNames []string, opts ...Option) (*CertParams, error) {
	o := buildOptions(opts)

	subject, err := newEntity(name, key)
	if err != nil {
		return nil, err
	}
	issuer, err := newEntity(issuerName, issuerKey)
	if err != nil {
		return nil, err
	}

	commonName, err := subject.DN.CommonName()
	if err != nil {
		return nil, err
	}

	sans := make([]string, 0, len(altNames)+1)
	sans = append(sans, commonName)
	sans = append(sans, altNames...)

	now := o.clock()
	return newParams(subject, &issuer, validDays, big.NewInt(now.UnixNano()), sans, now)
}
