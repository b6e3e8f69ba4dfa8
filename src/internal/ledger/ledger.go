// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package ledger

import (
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	x509ca "github.com/H0llyW00dzZ/devca/src/internal/x509/ca"
	x509certs "github.com/H0llyW00dzZ/devca/src/internal/x509/certs"
)

var issuedBucket = []byte("issued")

var (
	// ErrOpen indicates that the ledger database could not be opened.
	ErrOpen = errors.New("ledger: failed to open database")

	// ErrRecord indicates that an entry could not be stored.
	ErrRecord = errors.New("ledger: failed to record entry")

	// ErrList indicates that the stored entries could not be read.
	ErrList = errors.New("ledger: failed to list entries")
)

// Entry is one issued certificate.
type Entry struct {
	ID              string    `json:"id" yaml:"id"`
	Tier            string    `json:"tier" yaml:"tier"`
	CommonName      string    `json:"common_name" yaml:"common_name"`
	Serial          string    `json:"serial" yaml:"serial"`
	SubjectAltNames []string  `json:"subject_alt_names,omitempty" yaml:"subject_alt_names,omitempty"`
	NotBefore       time.Time `json:"not_before" yaml:"not_before"`
	NotAfter        time.Time `json:"not_after" yaml:"not_after"`
	Fingerprint     string    `json:"fingerprint_sha256" yaml:"fingerprint_sha256"`
	Path            string    `json:"path" yaml:"path"`
}

// NewEntry describes cert, issued at tier and stored at path.
func NewEntry(tier x509ca.Tier, cert *x509.Certificate, path string) Entry {
	return Entry{
		Tier:            tier.String(),
		CommonName:      cert.Subject.CommonName,
		Serial:          cert.SerialNumber.String(),
		SubjectAltNames: cert.DNSNames,
		NotBefore:       cert.NotBefore.UTC(),
		NotAfter:        cert.NotAfter.UTC(),
		Fingerprint:     x509certs.Fingerprint(cert),
		Path:            path,
	}
}

// Expired reports whether the entry is past its not-after bound at now.
func (e Entry) Expired(now time.Time) bool { return now.After(e.NotAfter) }

// Ledger is the issuance history of one configuration directory, backed by
// a bbolt database. Keys are version 7 UUIDs, so cursor order is issuance
// order.
type Ledger struct {
	db *bbolt.DB
}

// Open opens or creates the database at path. A second process holding the
// file makes Open fail after a one second wait instead of blocking.
func Open(path string) (*Ledger, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores e under a fresh ID and returns it with the ID set.
func (l *Ledger) Record(e Entry) (Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrRecord, err)
	}
	e.ID = id.String()

	data, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrRecord, err)
	}

	err = l.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(issuedBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(e.ID), data)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrRecord, err)
	}
	return e, nil
}

// List returns every entry in issuance order.
func (l *Ledger) List() ([]Entry, error) {
	var entries []Entry
	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(issuedBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("entry %s: %w", k, err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrList, err)
	}
	return entries, nil
}

// Latest returns the most recent entry for commonName, if any.
func (l *Ledger) Latest(commonName string) (Entry, bool, error) {
	entries, err := l.List()
	if err != nil {
		return Entry{}, false, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].CommonName == commonName {
			return entries[i], true, nil
		}
	}
	return Entry{}, false, nil
}

// Reset removes every entry. It is called when the CA is regenerated, since
// certificates issued by the previous hierarchy no longer chain.
func (l *Ledger) Reset() error {
	err := l.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(issuedBucket) == nil {
			return nil
		}
		return tx.DeleteBucket(issuedBucket)
	})
	if err != nil {
		return fmt.Errorf("%w: reset: %v", ErrRecord, err)
	}
	return nil
}
