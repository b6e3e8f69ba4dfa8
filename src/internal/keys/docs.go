// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package keys generates, encodes and parses the private keys of the
// hierarchy. Keys are written as unencrypted PKCS#8 PEM and read back through
// cfssl, which also understands the legacy PKCS#1 and SEC 1 encodings.
package keys
