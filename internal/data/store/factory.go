package store

import (
	"context"

	"github.com/akolanti/scanflow/internal/config"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/spf13/afero"
)

// NewStateStore builds the configured backend, falling back to memory when
// the backend cannot be reached.
func NewStateStore(ctx context.Context, backend string) exportModel.StateStore {
	log := logger_i.NewLogger("StateStoreFactory").With("backend", backend)
	switch backend {
	case config.StateBackendRedis:
		s, err := GetRedisStateStore(ctx)
		if err == nil {
			return s
		}
		log.Warn("falling back to in-memory state store", "error", err)
	case config.StateBackendFile:
		s, err := NewFileStateStore(afero.NewOsFs(), config.StateDir())
		if err == nil {
			return s
		}
		log.Warn("falling back to in-memory state store", "error", err)
	}
	return InitInMemoryStateStore()
}
