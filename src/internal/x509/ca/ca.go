// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ca

import (
	"crypto"
	"errors"
	"math/big"

	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
)

var (
	// ErrInvalidValidity indicates a non-positive validity period.
	ErrInvalidValidity = errors.New("x509ca: validity must be at least one day")

	// ErrMissingKey indicates that an entity was given no key material.
	ErrMissingKey = errors.New("x509ca: missing private key")

	// ErrMissingContext indicates that a tier which links to its issuer was
	// assembled without the issuer's certificate.
	ErrMissingContext = errors.New("x509ca: missing signing context certificate")

	// ErrNotSelfIssued indicates that root parameters carry an explicit issuer.
	ErrNotSelfIssued = errors.New("x509ca: root parameters must be self-issued")

	// ErrIssuerMismatch indicates that the issuer in the parameters is not the
	// subject of the context certificate.
	ErrIssuerMismatch = errors.New("x509ca: issuer does not match signing context")

	// ErrExtension indicates that an X.509v3 extension could not be encoded.
	ErrExtension = errors.New("x509ca: failed to build extension")

	// ErrUnsupportedKey indicates a key type that cannot sign with SHA-256.
	ErrUnsupportedKey = errors.New("x509ca: unsupported key type")

	// ErrSign indicates that building or signing the certificate failed.
	ErrSign = errors.New("x509ca: failed to sign certificate")
)

// Serial numbers reserved for the CA tiers.
//
// These are fixed so that regenerated hierarchies are reproducible. Every
// regeneration replaces the whole CA, which is the only reason reuse is
// tolerable; a CA that issues more than once per key needs a
// collision-resistant serial per issuance instead.
var (
	RootSerial         = big.NewInt(1000)
	IntermediateSerial = big.NewInt(10000)
)

// Tier identifies the position of a certificate in the hierarchy.
type Tier int

const (
	// TierRoot is the self-signed trust anchor.
	TierRoot Tier = iota
	// TierIntermediate is signed by the root and signs servers.
	TierIntermediate
	// TierServer is the end-entity certificate.
	TierServer
)

// String returns the tier name used in logs and the issuance ledger.
func (t Tier) String() string {
	switch t {
	case TierRoot:
		return "root"
	case TierIntermediate:
		return "intermediate"
	case TierServer:
		return "server"
	default:
		return "unknown"
	}
}

// Entity pairs a distinguished name with the private key that belongs to it.
// Entities are held by value in [CertParams]; nothing outside the params
// bundle owns them.
type Entity struct {
	DN  x509name.DistinguishedName
	Key crypto.Signer
}

func newEntity(name x509name.Name, key crypto.Signer) (Entity, error) {
	if key == nil {
		return Entity{}, ErrMissingKey
	}
	dn, err := name.ToDistinguishedName()
	if err != nil {
		return Entity{}, err
	}
	return Entity{DN: dn, Key: key}, nil
}
