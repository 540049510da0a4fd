package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const (
	keychainService = "cdico"

	// EnvKeyringPassword unlocks the file keyring without a terminal prompt.
	EnvKeyringPassword = "CDICO_KEYRING_PASSWORD"
)

// ErrKeyNotFound is returned when no key is stored under a reference.
var ErrKeyNotFound = errors.New("key not found")

// KeyStore stores private keys by reference.
type KeyStore interface {
	Store(name, hexKey string) (string, error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
}

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// OpenKeystore returns a keystore backed by the OS keychain. On Linux without
// a secret service it falls back to an encrypted file keyring under dir.
func OpenKeystore(dir string) (*Keystore, error) {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(dir, "keys"),
		FilePasswordFunc:         filePassword,
	}
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		if ring, err = keyring.Open(cfg); err != nil {
			return nil, fmt.Errorf("opening keyring: %w", err)
		}
	}
	return &Keystore{ring: ring}, nil
}

// NewFileKeystore opens an encrypted file keyring in dir with a fixed
// password. Used for headless setups and tests.
func NewFileKeystore(dir, password string) (*Keystore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      keychainService,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: keyring.FixedStringPrompt(password),
	})
	if err != nil {
		return nil, fmt.Errorf("opening file keyring: %w", err)
	}
	return &Keystore{ring: ring}, nil
}

func filePassword(prompt string) (string, error) {
	if pw := os.Getenv(EnvKeyringPassword); pw != "" {
		return pw, nil
	}
	return keyring.TerminalPrompt(prompt)
}

func ref(name string) string { return keychainService + "." + name }

// Store saves a private key for a wallet name and returns a reference key.
func (k *Keystore) Store(name, hexKey string) (string, error) {
	r := ref(name)
	err := k.ring.Set(keyring.Item{
		Key:         r,
		Data:        []byte(normaliseHexKey(hexKey)),
		Label:       "cdico wallet " + name,
		Description: "Crypto Dev Token ICO signing key",
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return r, nil
}

// Retrieve fetches a private key by its reference.
func (k *Keystore) Retrieve(r string) (string, error) {
	item, err := k.ring.Get(r)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, r)
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return normaliseHexKey(string(item.Data)), nil
}

// Delete removes a stored key. Deleting a missing key is not an error.
func (k *Keystore) Delete(r string) error {
	err := k.ring.Remove(r)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !os.IsNotExist(err) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// normaliseHexKey trims whitespace and a 0x/0X prefix.
func normaliseHexKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

// InMemoryKeystore stores keys in memory (for tests).
type InMemoryKeystore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewInMemoryKeystore creates an in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Store(name, hexKey string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	r := ref(name)
	k.data[r] = normaliseHexKey(hexKey)
	return r, nil
}

func (k *InMemoryKeystore) Retrieve(r string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.data[r]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, r)
	}
	return v, nil
}

func (k *InMemoryKeystore) Delete(r string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, r)
	return nil
}
