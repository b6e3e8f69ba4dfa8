// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ca

import (
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Extension OIDs, RFC 5280 section 4.2 plus the legacy Netscape arc.
var (
	oidSubjectKeyID       = asn1.ObjectIdentifier{2, 5, 29, 14}
	oidKeyUsage           = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidSubjectAltName     = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidBasicConstraints   = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidAuthorityKeyID     = asn1.ObjectIdentifier{2, 5, 29, 35}
	oidExtKeyUsage        = asn1.ObjectIdentifier{2, 5, 29, 37}
	oidNetscapeCertType   = asn1.ObjectIdentifier{2, 16, 840, 1, 113730, 1, 1}
	oidNetscapeComment    = asn1.ObjectIdentifier{2, 16, 840, 1, 113730, 1, 13}
	oidExtKeyUsageServer  = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 1}
	netscapeSSLServerBit  = 1
	netscapeServerComment = "devca Generated Server Certificate"
)

// Key usage bit positions, RFC 5280 section 4.2.1.3.
const (
	bitDigitalSignature = 0
	bitNonRepudiation   = 1
	bitKeyEncipherment  = 2
	bitKeyCertSign      = 5
	bitCRLSign          = 6
)

// Extensions returns the ordered extension list for tier.
//
// subject is the public key the certificate is issued for. context is the
// certificate used to derive the authority key identifier: the draft root for
// the final root, the root for the intermediate and the intermediate for a
// server. A nil context for the root yields the draft list, which carries the
// subject key identifier only. sans is ignored for the CA tiers.
func Extensions(tier Tier, subject crypto.PublicKey, context *x509.Certificate, sans []string) ([]pkix.Extension, error) {
	switch tier {
	case TierRoot:
		if context == nil {
			return RootDraftExtensions(subject)
		}
		return RootExtensions(subject, context)
	case TierIntermediate:
		return IntermediateExtensions(subject, context)
	case TierServer:
		return ServerExtensions(subject, context, sans)
	default:
		return nil, fmt.Errorf("%w: unknown tier %d", ErrExtension, int(tier))
	}
}

// RootDraftExtensions returns the phase-one root list: the subject key
// identifier only.
func RootDraftExtensions(subject crypto.PublicKey) ([]pkix.Extension, error) {
	skid, err := subjectKeyIDExtension(subject)
	if err != nil {
		return nil, err
	}
	return []pkix.Extension{skid}, nil
}

// RootExtensions returns the final root list, linking the authority key
// identifier to the key identifier of the draft certificate.
func RootExtensions(subject crypto.PublicKey, draft *x509.Certificate) ([]pkix.Extension, error) {
	return assemble(
		func() (pkix.Extension, error) { return subjectKeyIDExtension(subject) },
		func() (pkix.Extension, error) { return authorityKeyIDExtension(draft, false) },
		func() (pkix.Extension, error) { return basicConstraintsExtension(true, true) },
		func() (pkix.Extension, error) {
			return keyUsageExtension(bitDigitalSignature, bitKeyCertSign, bitCRLSign)
		},
	)
}

// IntermediateExtensions returns the intermediate list. The authority key
// identifier carries the root's key identifier, issuer name and serial.
// Basic constraints are not critical and set no path length.
func IntermediateExtensions(subject crypto.PublicKey, root *x509.Certificate) ([]pkix.Extension, error) {
	return assemble(
		func() (pkix.Extension, error) { return subjectKeyIDExtension(subject) },
		func() (pkix.Extension, error) { return authorityKeyIDExtension(root, true) },
		func() (pkix.Extension, error) { return basicConstraintsExtension(true, false) },
		func() (pkix.Extension, error) {
			return keyUsageExtension(bitDigitalSignature, bitKeyCertSign, bitCRLSign)
		},
	)
}

// ServerExtensions returns the server list. The subject alternative name
// extension is appended only when sans is non-empty, one DNS name per entry
// in the given order.
func ServerExtensions(subject crypto.PublicKey, intermediate *x509.Certificate, sans []string) ([]pkix.Extension, error) {
	builders := []func() (pkix.Extension, error){
		func() (pkix.Extension, error) { return subjectKeyIDExtension(subject) },
		func() (pkix.Extension, error) { return authorityKeyIDExtension(intermediate, true) },
		func() (pkix.Extension, error) { return basicConstraintsExtension(false, false) },
		netscapeCertTypeExtension,
		netscapeCommentExtension,
		func() (pkix.Extension, error) {
			return keyUsageExtension(bitDigitalSignature, bitNonRepudiation, bitKeyEncipherment)
		},
		serverAuthExtension,
	}
	if len(sans) > 0 {
		builders = append(builders, func() (pkix.Extension, error) { return subjectAltNameExtension(sans) })
	}
	return assemble(builders...)
}

func assemble(builders ...func() (pkix.Extension, error)) ([]pkix.Extension, error) {
	exts := make([]pkix.Extension, 0, len(builders))
	for _, build := range builders {
		ext, err := build()
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// KeyID returns the RFC 5280 method (1) key identifier: the SHA-1 hash of
// the subjectPublicKey BIT STRING.
func KeyID(pub crypto.PublicKey) ([]byte, error) {
	spki, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
	}

	input := cryptobyte.String(spki)
	var info cryptobyte.String
	var bits asn1.BitString
	if !input.ReadASN1(&info, cryptobyte_asn1.SEQUENCE) ||
		!info.SkipASN1(cryptobyte_asn1.SEQUENCE) ||
		!info.ReadASN1BitString(&bits) {
		return nil, fmt.Errorf("%w: malformed subject public key info", ErrExtension)
	}

	sum := sha1.Sum(bits.Bytes)
	return sum[:], nil
}

func subjectKeyIDExtension(pub crypto.PublicKey) (pkix.Extension, error) {
	if pub == nil {
		return pkix.Extension{}, ErrMissingKey
	}
	id, err := KeyID(pub)
	if err != nil {
		return pkix.Extension{}, err
	}
	value, err := asn1.Marshal(id)
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: subject key identifier: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidSubjectKeyID, Value: value}, nil
}

// contextKeyID prefers the key identifier recorded in the context
// certificate and falls back to hashing its public key.
func contextKeyID(context *x509.Certificate) ([]byte, error) {
	if len(context.SubjectKeyId) > 0 {
		return context.SubjectKeyId, nil
	}
	return KeyID(context.PublicKey)
}

// authorityKeyIDExtension derives the authority key identifier from context.
// With withIssuer set it also records the context's issuer name and serial
// (authorityCertIssuer and authorityCertSerialNumber).
func authorityKeyIDExtension(context *x509.Certificate, withIssuer bool) (pkix.Extension, error) {
	if context == nil {
		return pkix.Extension{}, ErrMissingContext
	}

	keyID, err := contextKeyID(context)
	if err != nil {
		return pkix.Extension{}, err
	}
	if withIssuer && (len(context.RawIssuer) == 0 || context.SerialNumber == nil) {
		return pkix.Extension{}, fmt.Errorf("%w: context certificate has no issuer or serial", ErrExtension)
	}

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cryptobyte_asn1.Tag(0).ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddBytes(keyID)
		})
		if !withIssuer {
			return
		}
		b.AddASN1(cryptobyte_asn1.Tag(1).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
			b.AddASN1(cryptobyte_asn1.Tag(4).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddBytes(context.RawIssuer)
			})
		})
		b.AddASN1(cryptobyte_asn1.Tag(2).ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddBytes(integerContents(context.SerialNumber))
		})
	})

	value, err := b.Bytes()
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: authority key identifier: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidAuthorityKeyID, Value: value}, nil
}

// integerContents returns the DER contents octets of a non-negative INTEGER.
func integerContents(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) == 0 || b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	return b
}

type basicConstraints struct {
	IsCA       bool `asn1:"optional"`
	MaxPathLen int  `asn1:"optional,default:-1"`
}

func basicConstraintsExtension(isCA, critical bool) (pkix.Extension, error) {
	value, err := asn1.Marshal(basicConstraints{IsCA: isCA, MaxPathLen: -1})
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: basic constraints: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidBasicConstraints, Critical: critical, Value: value}, nil
}

// namedBits encodes a named bit list with trailing zero bits removed, as DER
// requires.
func namedBits(bits ...int) asn1.BitString {
	var out asn1.BitString
	for _, bit := range bits {
		for len(out.Bytes) <= bit/8 {
			out.Bytes = append(out.Bytes, 0)
		}
		out.Bytes[bit/8] |= 0x80 >> uint(bit%8)
		if bit+1 > out.BitLength {
			out.BitLength = bit + 1
		}
	}
	return out
}

func keyUsageExtension(bits ...int) (pkix.Extension, error) {
	value, err := asn1.Marshal(namedBits(bits...))
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: key usage: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidKeyUsage, Value: value}, nil
}

func serverAuthExtension() (pkix.Extension, error) {
	value, err := asn1.Marshal([]asn1.ObjectIdentifier{oidExtKeyUsageServer})
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: extended key usage: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidExtKeyUsage, Value: value}, nil
}

func netscapeCertTypeExtension() (pkix.Extension, error) {
	value, err := asn1.Marshal(namedBits(netscapeSSLServerBit))
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: netscape cert type: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidNetscapeCertType, Value: value}, nil
}

func netscapeCommentExtension() (pkix.Extension, error) {
	value, err := asn1.MarshalWithParams(netscapeServerComment, "ia5")
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: netscape comment: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidNetscapeComment, Value: value}, nil
}

func subjectAltNameExtension(sans []string) (pkix.Extension, error) {
	for _, name := range sans {
		if !isIA5(name) {
			return pkix.Extension{}, fmt.Errorf("%w: DNS name %q is not IA5", ErrExtension, name)
		}
	}

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, name := range sans {
			b.AddASN1(cryptobyte_asn1.Tag(2).ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(name))
			})
		}
	})

	value, err := b.Bytes()
	if err != nil {
		return pkix.Extension{}, fmt.Errorf("%w: subject alternative name: %v", ErrExtension, err)
	}
	return pkix.Extension{Id: oidSubjectAltName, Value: value}, nil
}

func isIA5(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return s != ""
}
