// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package store

import (
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/H0llyW00dzZ/devca/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/devca/src/internal/keys"
	x509certs "github.com/H0llyW00dzZ/devca/src/internal/x509/certs"
)

// File modes of generated artifacts.
const (
	KeyMode  fs.FileMode = 0o600
	CertMode fs.FileMode = 0o644
)

var (
	// ErrRead indicates that a stored file could not be read or decoded.
	ErrRead = errors.New("store: failed to read file")

	// ErrWrite indicates that a file could not be encoded or written.
	ErrWrite = errors.New("store: failed to write file")
)

// WriteResult describes one completed write. The store never logs; callers
// decide whether to report it.
type WriteResult struct {
	Path string
	Size int
	Mode fs.FileMode
}

// String formats the result for verbose output.
func (r WriteResult) String() string {
	return fmt.Sprintf("wrote %d bytes to %s (%04o)", r.Size, r.Path, uint32(r.Mode))
}

// Store reads and writes PEM-encoded keys and certificates.
//
// Writes replace files in place and are not atomic. A sequence of writes that
// fails midway leaves the earlier files behind.
type Store struct {
	pool  gc.Pool
	codec *x509certs.Codec
}

// New returns a Store that stages reads in [gc.Default].
func New() *Store {
	return &Store{pool: gc.Default, codec: x509certs.New()}
}

// Exists reports whether path names an existing regular file.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadFile returns the contents of path. The error wraps both [ErrRead] and
// the underlying [fs.PathError], so errors.Is(err, fs.ErrNotExist) works.
func (s *Store) ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	data, err := gc.ReadAll(s.pool, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return data, nil
}

// WriteFile writes data to path with mode, replacing any existing file.
// The mode is applied even when the file already existed.
func (s *Store) WriteFile(path string, data []byte, mode fs.FileMode) (WriteResult, error) {
	if err := os.WriteFile(path, data, mode); err != nil {
		return WriteResult{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		return WriteResult{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return WriteResult{Path: path, Size: len(data), Mode: mode}, nil
}

// WriteKey writes key as PKCS#8 PEM readable by the owner only.
func (s *Store) WriteKey(path string, key crypto.Signer) (WriteResult, error) {
	data, err := keys.EncodePEM(key)
	if err != nil {
		return WriteResult{}, fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return s.WriteFile(path, data, KeyMode)
}

// WriteCert writes cert as a PEM certificate.
func (s *Store) WriteCert(path string, cert *x509.Certificate) (WriteResult, error) {
	return s.WriteFile(path, s.codec.EncodePEM(cert), CertMode)
}

// ReadKey reads a private key from path.
func (s *Store) ReadKey(path string) (crypto.Signer, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := keys.ParsePEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return key, nil
}

// ReadCert reads the first certificate from path.
func (s *Store) ReadCert(path string) (*x509.Certificate, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cert, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return cert, nil
}

// ReadChain reads every certificate from a bundle at path, in file order.
func (s *Store) ReadChain(path string) ([]*x509.Certificate, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	certs, err := s.codec.DecodeAll(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return certs, nil
}
