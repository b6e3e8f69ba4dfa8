// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509ca builds and signs the certificates of a three-tier
// development hierarchy: a self-signed root CA, an intermediate CA signed by
// the root and server certificates signed by the intermediate.
//
// Parameters for each tier come from [RootParams], [IntermediateParams] and
// [ServerParams]. The resulting bundle fixes the issuance instant, serial and
// subject alternative names before anything is signed.
//
// The root is built in two phases. [DraftRoot] signs a certificate with only
// a subject key identifier and [FinalizeRoot] uses it as the context for the
// authority key identifier of the final certificate:
//
//	params, err := x509ca.RootParams(name, key, 7200)
//	if err != nil {
//		return err
//	}
//	root, err := x509ca.CreateRoot(params)
//
// Extension order per tier is fixed by [Extensions]; the certificate is
// written with exactly that list and nothing else.
//
// This package is intended for local development only. Serial numbers for
// the CA tiers are constants and nothing is revoked.
package x509ca
