// Package secrets stores check option secrets encrypted at rest, so YAML
// configuration files never need to carry credentials in the clear.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// keySize is the NaCl secretbox key size.
	keySize = 32
	// nonceSize is the NaCl secretbox nonce size.
	nonceSize = 24
)

// deriveKey derives a secretbox key from a passphrase using SHA-256
func deriveKey(passphrase string) [keySize]byte {
	return sha256.Sum256([]byte(passphrase))
}

// encrypt seals plaintext with secretbox. The random nonce is prepended to
// the ciphertext.
func encrypt(plaintext []byte, key *[keySize]byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// decrypt opens data produced by encrypt
func decrypt(encrypted []byte, key *[keySize]byte) ([]byte, error) {
	if len(encrypted) < nonceSize {
		return nil, fmt.Errorf("encrypted data too short (minimum %d bytes)", nonceSize)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], encrypted[:nonceSize])

	plaintext, ok := secretbox.Open(nil, encrypted[nonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("decryption failed (wrong passphrase or corrupted store)")
	}
	return plaintext, nil
}
