// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509ca

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"

	x509name "github.com/H0llyW00dzZ/devca/src/internal/x509/name"
)

// signatureAlgorithm picks SHA-256 with the issuer's key type.
func signatureAlgorithm(issuer Entity) (x509.SignatureAlgorithm, error) {
	switch issuer.Key.Public().(type) {
	case *rsa.PublicKey:
		return x509.SHA256WithRSA, nil
	case *ecdsa.PublicKey:
		return x509.ECDSAWithSHA256, nil
	default:
		return x509.UnknownSignatureAlgorithm, fmt.Errorf("%w: %T", ErrUnsupportedKey, issuer.Key.Public())
	}
}

// BuildAndSign assembles a version 3 certificate from params and exts and
// signs it with the issuer key using SHA-256.
//
// The extensions are written exactly as given, in order. No other extension
// is added, so the typed extension fields of [x509.Certificate] are left
// empty on the template.
func BuildAndSign(params *CertParams, exts []pkix.Extension) (*x509.Certificate, error) {
	subject := params.Subject()
	issuer := params.Issuer()

	sigAlg, err := signatureAlgorithm(issuer)
	if err != nil {
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber:       params.Serial(),
		RawSubject:         subject.DN.Raw,
		NotBefore:          params.ValidFrom(),
		NotAfter:           params.ValidTo(),
		SignatureAlgorithm: sigAlg,
		ExtraExtensions:    exts,
	}
	parent := &x509.Certificate{
		RawSubject: issuer.DN.Raw,
		PublicKey:  issuer.Key.Public(),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, subject.Key.Public(), issuer.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSign, err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSign, err)
	}
	return cert, nil
}

// DraftRoot builds the phase-one root, which carries only a subject key
// identifier. Its sole use is as the signing context of [FinalizeRoot].
func DraftRoot(params *CertParams) (*x509.Certificate, error) {
	if !params.SelfIssued() {
		return nil, ErrNotSelfIssued
	}
	exts, err := RootDraftExtensions(params.Subject().Key.Public())
	if err != nil {
		return nil, err
	}
	return BuildAndSign(params, exts)
}

// FinalizeRoot builds the final root from the same params used for draft, so
// both phases share serial, names and validity.
func FinalizeRoot(params *CertParams, draft *x509.Certificate) (*x509.Certificate, error) {
	if !params.SelfIssued() {
		return nil, ErrNotSelfIssued
	}
	if draft == nil {
		return nil, ErrMissingContext
	}
	exts, err := RootExtensions(params.Subject().Key.Public(), draft)
	if err != nil {
		return nil, err
	}
	return BuildAndSign(params, exts)
}

// CreateRoot builds the self-signed root CA in two phases. The draft is
// discarded once the final certificate exists.
func CreateRoot(params *CertParams) (*x509.Certificate, error) {
	draft, err := DraftRoot(params)
	if err != nil {
		return nil, err
	}
	return FinalizeRoot(params, draft)
}

// CreateIntermediate builds the intermediate CA signed by root.
func CreateIntermediate(params *CertParams, root *x509.Certificate) (*x509.Certificate, error) {
	if err := checkContext(params, root); err != nil {
		return nil, err
	}
	exts, err := IntermediateExtensions(params.Subject().Key.Public(), root)
	if err != nil {
		return nil, err
	}
	return BuildAndSign(params, exts)
}

// CreateServer builds a server certificate signed by intermediate.
func CreateServer(params *CertParams, intermediate *x509.Certificate) (*x509.Certificate, error) {
	if err := checkContext(params, intermediate); err != nil {
		return nil, err
	}
	exts, err := ServerExtensions(params.Subject().Key.Public(), intermediate, params.SubjectAltNames())
	if err != nil {
		return nil, err
	}
	return BuildAndSign(params, exts)
}

func checkContext(params *CertParams, context *x509.Certificate) error {
	if context == nil {
		return ErrMissingContext
	}
	if bytes.Equal(params.Issuer().DN.Raw, context.RawSubject) {
		return nil
	}

	subject, err := x509name.ParseDistinguishedName(context.RawSubject)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIssuerMismatch, err)
	}
	return fmt.Errorf("%w: issuer %q, signing certificate %q", ErrIssuerMismatch, params.Issuer().DN, subject)
}
