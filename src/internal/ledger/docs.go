// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package ledger keeps the issuance history of the authority in a [bbolt]
// database next to the generated files. Each certificate the authority
// writes is recorded as a JSON document keyed by a time-ordered UUID.
//
// [bbolt]: https://github.com/etcd-io/bbolt
package ledger
