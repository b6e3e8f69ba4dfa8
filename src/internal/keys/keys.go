// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keys

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/helpers"
)

const (
	// CABits is the default RSA modulus size for the root and intermediate.
	CABits = 4096

	// ServerBits is the default RSA modulus size for server certificates.
	ServerBits = 2048

	// MinBits is the smallest modulus Generate accepts.
	MinBits = 2048

	// BlockType is the PEM label of an encoded private key.
	BlockType = "PRIVATE KEY"
)

var (
	// ErrKeySize indicates a modulus below [MinBits].
	ErrKeySize = errors.New("keys: RSA key size too small")

	// ErrGenerateKey indicates that the random source failed during generation.
	ErrGenerateKey = errors.New("keys: failed to generate key")

	// ErrEncodeKey indicates that the key could not be marshaled to PKCS#8.
	ErrEncodeKey = errors.New("keys: failed to encode key")

	// ErrDecodeKey indicates that the input holds no usable private key.
	ErrDecodeKey = errors.New("keys: failed to decode private key")
)

// Generate returns a fresh RSA key with the given modulus size.
func Generate(bits int) (*rsa.PrivateKey, error) {
	if bits < MinBits {
		return nil, fmt.Errorf("%w: %d bits", ErrKeySize, bits)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerateKey, err)
	}
	return key, nil
}

// EncodePEM marshals key as an unencrypted PKCS#8 PEM block.
func EncodePEM(key crypto.Signer) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeKey, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: BlockType, Bytes: der}), nil
}

// ParsePEM reads a private key from PEM data. PKCS#1, PKCS#8 and SEC 1
// encodings are accepted, so keys produced by openssl load as well.
func ParsePEM(data []byte) (crypto.Signer, error) {
	key, err := helpers.ParsePrivateKeyPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeKey, err)
	}
	return key, nil
}
