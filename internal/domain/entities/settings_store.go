package entities

import (
	"sync/atomic"

	logger "github.com/sirupsen/logrus"
)

// SettingsLoader produces a fresh Settings value.
type SettingsLoader func() (*Settings, error)

// SettingsStore holds the process-wide settings snapshot. Requests read one
// snapshot when they start; Reload swaps it atomically and keeps the previous
// snapshot when loading fails.
type SettingsStore struct {
	current atomic.Pointer[Settings]
	loader  SettingsLoader
}

// NewSettingsStore creates a store seeded with initial.
func NewSettingsStore(initial *Settings, loader SettingsLoader) *SettingsStore {
	store := &SettingsStore{loader: loader}
	store.current.Store(initial)
	return store
}

// Current returns the active snapshot.
func (it *SettingsStore) Current() *Settings {
	return it.current.Load()
}

// Reload replaces the snapshot with a freshly loaded one.
func (it *SettingsStore) Reload() error {
	if it.loader == nil {
		return nil
	}
	settings, err := it.loader()
	if err != nil {
		logger.Errorf("Failed to reload settings, keeping previous configuration: %v", err)
		return err
	}
	it.current.Store(settings)
	logger.Info("Settings reloaded")
	return nil
}
