package securestore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"trustbuild-shell/internal/core/domain"
)

// Keys for storage
const (
	tokenKey        = "auth_token"
	refreshTokenKey = "refresh_token"
)

const (
	saltFile  = ".salt"
	saltSize  = 16
	nonceSize = 24
)

// Store is the credential store: an encrypted file-per-key store standing in
// for the platform secure storage. Values are sealed with nacl/secretbox
// under a scrypt-derived key.
//
// Contract: write failures propagate with fixed messages; read and delete
// failures are swallowed and logged, degrading to "absent" — the caller must
// never crash because the secure store is unavailable.
type Store struct {
	dir string
	key [32]byte
}

// New opens (or initializes) the credential store rooted at dir
func New(dir, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, errors.New("secure store passphrase is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create secure store dir: %w", err)
	}

	salt, err := loadOrCreateSalt(filepath.Join(dir, saltFile))
	if err != nil {
		return nil, err
	}

	derived, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive secure store key: %w", err)
	}

	s := &Store{dir: dir}
	copy(s.key[:], derived)
	return s, nil
}

// SetToken stores the authentication token securely
func (s *Store) SetToken(token string) error {
	if err := s.write(tokenKey, token); err != nil {
		log.Printf("❌ Error storing token: %v", err)
		return domain.ErrTokenWriteFailed
	}
	return nil
}

// GetToken retrieves the authentication token; absent is the empty string
func (s *Store) GetToken() string {
	return s.read(tokenKey)
}

// RemoveToken removes the authentication token
func (s *Store) RemoveToken() {
	s.remove(tokenKey)
}

// SetRefreshToken stores the refresh token securely
func (s *Store) SetRefreshToken(token string) error {
	if err := s.write(refreshTokenKey, token); err != nil {
		log.Printf("❌ Error storing refresh token: %v", err)
		return domain.ErrRefreshTokenWriteFailed
	}
	return nil
}

// GetRefreshToken retrieves the refresh token; absent is the empty string
func (s *Store) GetRefreshToken() string {
	return s.read(refreshTokenKey)
}

// RemoveRefreshToken removes the refresh token
func (s *Store) RemoveRefreshToken() {
	s.remove(refreshTokenKey)
}

// write seals a value and writes it atomically under key
func (s *Store) write(key, value string) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}

	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, &s.key)

	path := filepath.Join(s.dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// read opens and unseals the value under key. Any failure (missing file,
// truncated file, tampered ciphertext) degrades to absent.
func (s *Store) read(key string) string {
	raw, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ Error reading %s from secure store: %v", key, err)
		}
		return ""
	}
	if len(raw) < nonceSize {
		log.Printf("⚠️ Secure store entry %s is truncated", key)
		return ""
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	value, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		log.Printf("⚠️ Secure store entry %s failed to decrypt", key)
		return ""
	}
	return string(value)
}

// remove deletes the value under key; failures are swallowed
func (s *Store) remove(key string) {
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ Error removing %s from secure store: %v", key, err)
	}
}

// loadOrCreateSalt reads the store salt, generating it on first use
func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil && len(salt) == saltSize {
		return salt, nil
	}

	salt = make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist salt: %w", err)
	}
	return salt, nil
}
