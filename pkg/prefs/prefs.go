// Package prefs persists integer user preferences such as the animation
// speed.
package prefs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/odvcencio/slate/pkg/logging"
)

//go:generate mockgen -package=prefs -destination=mock_store_test.go github.com/odvcencio/slate/pkg/prefs Store

// Preference keys.
const (
	KeyAnimationSpeed = "animation.speed"
)

// DefaultAnimationSpeed plays animations at their styled timing.
const DefaultAnimationSpeed = 10

// Store reads and writes integer preferences.
type Store interface {
	Get(ctx context.Context, key string) (value int, ok bool, err error)
	Set(ctx context.Context, key string, value int) error
}

// Int returns the stored value for key, or def when it is missing or the
// store fails. Failures are logged.
func Int(ctx context.Context, s Store, log *logging.Logger, key string, def int) int {
	if s == nil {
		return def
	}
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		logging.OrNop(log).WithCategory(logging.CategoryPrefs).Warn("preference read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return def
	}
	if !ok {
		return def
	}
	return v
}

// AnimationSpeed returns the animation speed preference.
func AnimationSpeed(ctx context.Context, s Store, log *logging.Logger) int {
	v := Int(ctx, s, log, KeyAnimationSpeed, DefaultAnimationSpeed)
	if v <= 0 {
		return DefaultAnimationSpeed
	}
	return v
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]int)}
}

func (m *Memory) Get(_ context.Context, key string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
