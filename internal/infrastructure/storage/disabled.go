package storage

import (
	apperrors "github.com/alexisbeaulieu97/conservancy/pkg/errors"

	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// Disabled rejects every call, like local storage in a private browsing
// window that throws on access.
type Disabled struct{}

// GetItem implements ports.Storage.
func (Disabled) GetItem(key string) (string, bool, error) {
	return "", false, apperrors.NewStorageError("get", key, ports.ErrStorageUnavailable)
}

// SetItem implements ports.Storage.
func (Disabled) SetItem(key, _ string) error {
	return apperrors.NewStorageError("set", key, ports.ErrStorageUnavailable)
}

var _ ports.Storage = Disabled{}
