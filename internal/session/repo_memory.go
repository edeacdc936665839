// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package session

import (
	"context"
	"sync"
)

// MemoryStateRepository implements [StateRepository] on a mutex-guarded map.
//
// # Usage
//
// Development and tests only: state is lost on restart and never shared
// between instances.
type MemoryStateRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStateRepository creates an empty in-process [StateRepository].
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{values: make(map[string]string)}
}

// Get returns the value stored at key, or [ErrNoValue].
func (repository *MemoryStateRepository) Get(_ context.Context, key string) (string, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	value, found := repository.values[key]
	if !found {
		return "", ErrNoValue
	}
	return value, nil
}

// Set writes the value at key.
func (repository *MemoryStateRepository) Set(_ context.Context, key, value string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.values[key] = value
	return nil
}

// Delete removes the value at key.
func (repository *MemoryStateRepository) Delete(_ context.Context, key string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.values, key)
	return nil
}

// GetDel reads and removes the value at key under one lock acquisition.
func (repository *MemoryStateRepository) GetDel(_ context.Context, key string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	value, found := repository.values[key]
	if !found {
		return "", ErrNoValue
	}
	delete(repository.values, key)
	return value, nil
}
