// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for lakeshift.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving sensitive data such as
// workspace API tokens.
//
// The package supports the macOS Keychain, the Windows Credential Manager and
// the Linux Secret Service, with an encrypted file fallback for headless hosts.
package keychain

import (
	"errors"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"lakeshift/cli/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "lakeshift"

// Keys used for storing secrets in the OS keychain.
const (
	KeyAPIToken = "api_token"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{
		ring: ring,
	}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	// If already initialized successfully, return it
	if globalManager != nil {
		return globalManager, nil
	}

	// If previous initialization failed, retry
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// MustGetManager returns the global keychain manager instance.
// Panics if initialization fails. Use only when you're sure initialization will succeed.
func MustGetManager() *Manager {
	manager, err := GetManager()
	if err != nil {
		panic(err)
	}
	return manager
}

// openRing opens the OS keyring with the native backend for the platform:
// Keychain on macOS, Credential Manager on Windows, Secret Service on
// Linux. An encrypted file under the XDG state directory is the fallback
// for headless hosts without a secret service.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.FileBackend,
		}
	}

	stateDir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends,
		PassPrefix:              ServiceName,
		LibSecretCollectionName: "login",
		FileDir:                 filepath.Join(stateDir, "keyring"),
		FilePasswordFunc:        keyring.TerminalPrompt,
	}

	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, err
	}

	return ring, nil
}

// SaveAPIToken stores the workspace API token in the OS keychain.
// This method is thread-safe.
func (m *Manager) SaveAPIToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token == "" {
		return errors.New("empty API token")
	}

	// Use native backend if available
	if m.backend != nil {
		return m.backend.Set(KeyAPIToken, token)
	}

	// Fallback to keyring library
	return m.ring.Set(keyring.Item{Key: KeyAPIToken, Data: []byte(token)})
}

// LoadAPIToken retrieves the workspace API token from the keychain.
// This method is thread-safe.
func (m *Manager) LoadAPIToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Use native backend if available
	if m.backend != nil {
		token, err := m.backend.Get(KeyAPIToken)
		if err != nil {
			return "", err
		}
		if token == "" {
			return "", errors.New("empty API token")
		}
		return token, nil
	}

	// Fallback to keyring library
	it, err := m.ring.Get(KeyAPIToken)
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", errors.New("empty API token")
	}
	return string(it.Data), nil
}

// ClearAuth removes all auth-related secrets from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		_ = m.backend.Delete(KeyAPIToken)
		return nil
	}

	_ = m.ring.Remove(KeyAPIToken)
	return nil
}
