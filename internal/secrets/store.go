package secrets

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"autosleep/internal/logging"
)

// Default locations for the encrypted store and its passphrase.
const (
	DefaultPath           = "/var/lib/autosleep/secrets.enc"
	DefaultPassphrasePath = "/var/lib/autosleep/.passphrase"
)

// Store is a file-backed secret store. The whole store is one encrypted JSON
// document mapping secret names to values.
type Store struct {
	path   string
	key    [keySize]byte
	logger *logging.Logger
}

// Open opens the store at path, loading the passphrase from passphrasePath
// and generating one on first use.
func Open(path, passphrasePath string, logger *logging.Logger) (*Store, error) {
	passphrase, err := loadOrGeneratePassphrase(passphrasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load passphrase: %w", err)
	}

	return &Store{
		path:   path,
		key:    deriveKey(passphrase),
		logger: logger,
	}, nil
}

// Get returns the named secret
func (s *Store) Get(name string) (string, error) {
	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[name]
	if !ok {
		return "", fmt.Errorf("secret %q not found", name)
	}
	return value, nil
}

// Set stores or replaces the named secret
func (s *Store) Set(name, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	values[name] = value
	if err := s.save(values); err != nil {
		return err
	}
	s.logger.Info("secrets.stored", "Secret stored", map[string]interface{}{
		"name": name,
	})
	return nil
}

// Delete removes the named secret
func (s *Store) Delete(name string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[name]; !ok {
		return fmt.Errorf("secret %q not found", name)
	}
	delete(values, name)
	if err := s.save(values); err != nil {
		return err
	}
	s.logger.Info("secrets.deleted", "Secret deleted", map[string]interface{}{
		"name": name,
	})
	return nil
}

// List returns the stored secret names in sorted order
func (s *Store) List() ([]string, error) {
	values, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Resolver returns a lookup function suitable for resolving secret references
// in check options.
func (s *Store) Resolver() func(name string) (string, error) {
	return s.Get
}

// load reads and decrypts the store. A missing file is an empty store.
func (s *Store) load() (map[string]string, error) {
	encrypted, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read secret store: %w", err)
	}

	data, err := decrypt(encrypted, &s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open secret store: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse secret store: %w", err)
	}
	return values, nil
}

// save encrypts and writes the store with owner-only permissions
func (s *Store) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal secret store: %w", err)
	}

	encrypted, err := encrypt(data, &s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create secret store directory: %w", err)
	}
	if err := os.WriteFile(s.path, encrypted, 0o600); err != nil {
		return fmt.Errorf("failed to write secret store: %w", err)
	}
	return nil
}

// loadOrGeneratePassphrase reads the passphrase file, generating a random
// passphrase on first use.
func loadOrGeneratePassphrase(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read passphrase file: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	passphrase := fmt.Sprintf("%x", raw)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create passphrase directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(passphrase), 0o600); err != nil {
		return "", fmt.Errorf("failed to write passphrase: %w", err)
	}
	return passphrase, nil
}
