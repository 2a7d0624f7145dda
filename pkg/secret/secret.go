// Package secret resolves encrypted-text credentials for external jobs.
//
// Values are self-contained: base64(salt || nonce || AES-256-GCM ciphertext),
// with the key derived from the passphrase via PBKDF2-SHA256. Both functions
// are pure; nothing here touches the filesystem or the network.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	keyLen     = 32
	pbkdf2Iter = 65536
)

// Encrypt produces an encrypted-text value suitable for storage in job
// configuration. The passphrase must be supplied again at decryption time.
func Encrypt(plain string, passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("passphrase is required")
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plain), nil)

	payload := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt recovers the clear-text value from an encrypted-text entry.
func Decrypt(encrypted string, passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("passphrase is required")
	}

	payload, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("decode encrypted value: %w", err)
	}
	if len(payload) < saltLen {
		return "", errors.New("encrypted value is truncated")
	}

	salt := payload[:saltLen]
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	rest := payload[saltLen:]
	if len(rest) < gcm.NonceSize() {
		return "", errors.New("encrypted value is truncated")
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt value: %w", err)
	}
	return string(plain), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iter, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}
