// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509name builds ordered [X.509] distinguished names from a flat set
// of identity attributes. The attribute order (country, province, locality,
// organization, organizational unit, common name) is fixed and carried into
// the DER encoding, which key identifiers and issuer linkage depend on.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509name
