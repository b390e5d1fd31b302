// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

// Package crypto implements MIFTAH's field-level encryption: individual
// sensitive payloads are encrypted before they reach the database, on top
// of whatever at-rest protection the storage engine itself provides.
//
// Wire format for an encrypted field: base64(16-byte IV ‖ AES-256-CBC
// ciphertext with PKCS#7 padding), stored as an ASCII string in a text
// column. The key is derived once from the deployment master secret and
// held for the life of the store.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrCiphertext is returned when an encrypted blob is structurally invalid:
// bad base64, truncated IV, a length that is not a whole number of blocks,
// or padding that does not verify (wrong key or corruption).
var ErrCiphertext = errors.New("malformed or undecryptable ciphertext")

// DeriveKey maps a master secret of any length to a fixed 32-byte symmetric
// key via a one-way digest. Deterministic and pure; callers are expected to
// reject empty secrets before getting here.
func DeriveKey(secret string) [32]byte {
	return sha256.Sum256([]byte(secret))
}

// FieldCipher encrypts and decrypts opaque field payloads with a key
// derived from the deployment master secret. The zero value is unusable;
// construct with NewFieldCipher.
type FieldCipher struct {
	key [32]byte
}

// NewFieldCipher derives the symmetric key from secret and returns a cipher
// ready for use. An empty secret is refused: it would silently downgrade
// every encrypted field to a well-known key.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	if secret == "" {
		return nil, errors.New("field cipher: empty master secret")
	}
	return &FieldCipher{key: DeriveKey(secret)}, nil
}

// Encrypt encrypts plaintext under a fresh random IV and returns the
// base64(IV‖ciphertext) blob. An empty plaintext is passed through
// unchanged so that absent optional fields store as absent, not as an
// encrypted empty string.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", fmt.Errorf("field cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("field cipher: reading IV: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. An empty blob is passed through unchanged.
// Structural failures are reported as ErrCiphertext-wrapped errors; the
// caller decides whether to fail soft (read paths) or propagate.
func (c *FieldCipher) Decrypt(blob string) (string, error) {
	if blob == "" {
		return blob, nil
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	if len(raw) < aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid length %d", ErrCiphertext, len(raw))
	}

	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", fmt.Errorf("field cipher: %w", err)
	}

	iv := raw[:aes.BlockSize]
	ct := raw[aes.BlockSize:]
	if len(ct) == 0 {
		return "", fmt.Errorf("%w: empty ciphertext", ErrCiphertext)
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// pkcs7Pad appends 1..blockSize bytes, each holding the pad length.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: bad padded length", ErrCiphertext)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrCiphertext)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrCiphertext)
		}
	}
	return data[:len(data)-n], nil
}
