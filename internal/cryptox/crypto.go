// Package cryptox implements the symmetric primitives used by the encryption
// gateway: AES-GCM sealing with the nonce embedded in the output blob, and
// argon2id derivation of the root wrapping key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// blobVersion prefixes every sealed blob so the format can evolve.
const blobVersion byte = 0x01

const (
	KeySize   = 32
	nonceSize = 12
)

var (
	ErrMalformedBlob  = errors.New("malformed ciphertext blob")
	ErrAuthentication = errors.New("ciphertext authentication failed")
)

// DeriveRootKey derives a 32-byte wrapping key from a secret and salt using
// argon2id. Same inputs always produce the same key.
func DeriveRootKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		// rand.Read only fails when the platform CSPRNG is broken.
		panic(err)
	}
	return b
}

// Seal encrypts plaintext with AES-GCM under key, binding aad as associated
// data, and returns a self-contained blob: version byte, nonce, ciphertext.
// A fresh nonce is generated per call, so two seals of the same plaintext
// produce different blobs.
func Seal(key, plaintext, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := GenerateRandByteArray(nonceSize)

	blob := make([]byte, 0, 1+nonceSize+len(plaintext)+aesgcm.Overhead())
	blob = append(blob, blobVersion)
	blob = append(blob, nonce...)
	blob = aesgcm.Seal(blob, nonce, plaintext, aad)

	return blob, nil
}

// Open authenticates and decrypts a blob produced by Seal. The same key and
// aad must be supplied. Returns ErrMalformedBlob for structurally invalid
// input and ErrAuthentication when the ciphertext does not authenticate
// (tampered data, wrong key or wrong aad).
func Open(key, blob, aad []byte) ([]byte, error) {
	if len(blob) < 1+nonceSize {
		return nil, ErrMalformedBlob
	}
	if blob[0] != blobVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrMalformedBlob, blob[0])
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := blob[1 : 1+nonceSize]
	ciphertext := blob[1+nonceSize:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
