// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package store persists the keys and certificates of the hierarchy as PEM
// files. Private keys are written with mode 0600 and certificates with 0644.
package store
