// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509name

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEncodeName indicates that an attribute value could not be encoded
	// into a distinguished name.
	ErrEncodeName = errors.New("x509name: failed to encode distinguished name")

	// ErrParseName indicates that DER bytes do not hold a distinguished name.
	ErrParseName = errors.New("x509name: failed to parse distinguished name")

	// ErrMissingCommonName indicates that a distinguished name has no common name.
	ErrMissingCommonName = errors.New("x509name: distinguished name has no common name")
)

// Attribute type OIDs, RFC 5280 appendix A.
var (
	oidCountry            = asn1.ObjectIdentifier{2, 5, 4, 6}
	oidProvince           = asn1.ObjectIdentifier{2, 5, 4, 8}
	oidLocality           = asn1.ObjectIdentifier{2, 5, 4, 7}
	oidOrganization       = asn1.ObjectIdentifier{2, 5, 4, 10}
	oidOrganizationalUnit = asn1.ObjectIdentifier{2, 5, 4, 11}
	oidCommonName         = asn1.ObjectIdentifier{2, 5, 4, 3}
)

// Name is the flat set of identity attributes for one certificate subject.
// Empty attributes are left out of the distinguished name.
type Name struct {
	Country            string
	Province           string
	Locality           string
	Organization       string
	OrganizationalUnit string
	CommonName         string
}

// WithCommonName returns a copy of n carrying commonName.
// Every other attribute is shared with n.
func (n Name) WithCommonName(commonName string) Name {
	n.CommonName = commonName
	return n
}

// attributes returns the attributes in their fixed DN order:
// C, ST, L, O, OU, CN.
func (n Name) attributes() []pkix.AttributeTypeAndValue {
	return []pkix.AttributeTypeAndValue{
		{Type: oidCountry, Value: n.Country},
		{Type: oidProvince, Value: n.Province},
		{Type: oidLocality, Value: n.Locality},
		{Type: oidOrganization, Value: n.Organization},
		{Type: oidOrganizationalUnit, Value: n.OrganizationalUnit},
		{Type: oidCommonName, Value: n.CommonName},
	}
}

// DistinguishedName is an ordered [X.501] name together with its DER encoding.
// Raw is what gets embedded as subject or issuer of a certificate, so the
// order of RDNs is preserved byte for byte.
//
// [X.501]: https://grokipedia.com/page/X.500
type DistinguishedName struct {
	RDNs pkix.RDNSequence
	Raw  []byte
}

// ToDistinguishedName converts n into a distinguished name holding one
// single-valued RDN per non-empty attribute. Values are normalised to
// Unicode NFC before encoding.
func (n Name) ToDistinguishedName() (DistinguishedName, error) {
	var rdns pkix.RDNSequence
	for _, attr := range n.attributes() {
		value := attr.Value.(string)
		if value == "" {
			continue
		}
		if !utf8.ValidString(value) {
			return DistinguishedName{}, fmt.Errorf("%w: attribute %s is not valid UTF-8", ErrEncodeName, attr.Type)
		}
		attr.Value = norm.NFC.String(value)
		rdns = append(rdns, pkix.RelativeDistinguishedNameSET{attr})
	}

	raw, err := asn1.Marshal(rdns)
	if err != nil {
		return DistinguishedName{}, fmt.Errorf("%w: %v", ErrEncodeName, err)
	}

	return DistinguishedName{RDNs: rdns, Raw: raw}, nil
}

// ParseDistinguishedName decodes the DER form of a distinguished name, such
// as x509.Certificate.RawSubject.
func ParseDistinguishedName(raw []byte) (DistinguishedName, error) {
	var rdns pkix.RDNSequence
	rest, err := asn1.Unmarshal(raw, &rdns)
	if err != nil {
		return DistinguishedName{}, fmt.Errorf("%w: %v", ErrParseName, err)
	}
	if len(rest) != 0 {
		return DistinguishedName{}, fmt.Errorf("%w: trailing data", ErrParseName)
	}
	return DistinguishedName{RDNs: rdns, Raw: append([]byte(nil), raw...)}, nil
}

// CommonName returns the first common name attribute of dn.
func (dn DistinguishedName) CommonName() (string, error) {
	for _, rdn := range dn.RDNs {
		for _, attr := range rdn {
			if !attr.Type.Equal(oidCommonName) {
				continue
			}
			if cn, ok := attr.Value.(string); ok {
				return cn, nil
			}
		}
	}
	return "", ErrMissingCommonName
}

// String returns the RFC 2253 form of dn.
func (dn DistinguishedName) String() string {
	var name pkix.Name
	name.FillFromRDNSequence(&dn.RDNs)
	return name.String()
}
