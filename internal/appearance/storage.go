package appearance

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Storage keys holding the same literals as the cookies.
const (
	ThemeStorageKey         = "theme"
	ResolvedThemeStorageKey = "resolved-theme"
	PaletteStorageKey       = "palette"
)

// safeStorage turns every storage failure, error or panic, into "absent" on
// read and a no-op on write. The first failure is logged as a warning and the
// rest at debug level.
type safeStorage struct {
	backend ports.Storage
	logger  ports.Logger
	warned  atomic.Bool
}

func newSafeStorage(backend ports.Storage, logger ports.Logger) *safeStorage {
	return &safeStorage{backend: backend, logger: logger}
}

func (s *safeStorage) get(key string) (value string, ok bool) {
	if s == nil || s.backend == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			s.report("get", key, fmt.Errorf("panic: %v", r))
			value, ok = "", false
		}
	}()

	v, found, err := s.backend.GetItem(key)
	if err != nil {
		s.report("get", key, err)
		return "", false
	}
	return v, found
}

func (s *safeStorage) set(key, value string) {
	if s == nil || s.backend == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.report("set", key, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := s.backend.SetItem(key, value); err != nil {
		s.report("set", key, err)
	}
}

func (s *safeStorage) report(op, key string, err error) {
	if s.logger == nil {
		return
	}
	ctx := context.Background()
	if s.warned.CompareAndSwap(false, true) {
		s.logger.Warn(ctx, "appearance storage unavailable, continuing in memory", "op", op, "key", key, "error", err)
		return
	}
	s.logger.Debug(ctx, "appearance storage call failed", "op", op, "key", key, "error", err)
}
