// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain verifies and renders the [X.509] certificate path of an issued
// server certificate: leaf, intermediate and root. It provides capabilities to:
//   - Verify the path using only the certificates in it as trust anchors.
//   - Check each issuer link, including key identifier linkage.
//   - Render the path as an ASCII tree, a markdown table or JSON.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509chain
