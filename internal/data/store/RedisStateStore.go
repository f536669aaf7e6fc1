package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/scanflow/internal/config"
	"github.com/akolanti/scanflow/internal/data/redisStore"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/pkg/logger_i"
)

type RedisStateStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisStateStore(ctx context.Context) (*RedisStateStore, error) {
	s, err := redisStore.GetRedisStore(ctx, config.RedisStateStore)
	if err != nil {
		return nil, err
	}
	return NewRedisStateStore(s), nil
}

func NewRedisStateStore(s *redisStore.Store) *RedisStateStore {
	return &RedisStateStore{
		store:  s,
		logger: logger_i.NewLogger("StateStore"),
	}
}

func stateKey(exportID string) string {
	return "scanflow:export:" + exportID
}

func (s *RedisStateStore) Save(ctx context.Context, state exportModel.ExportState) error {
	log := s.logger.FromContext(ctx).ForExport(state.ExportID)
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.store.SetWithIndex(ctx, config.RedisStateIndexKey, stateKey(state.ExportID), data, config.RedisStateStoreTTL); err != nil {
		return fmt.Errorf("save export state: %w", err)
	}
	log.Debug("saved export state to redis")
	return nil
}

func (s *RedisStateStore) Load(ctx context.Context, exportID string) (exportModel.ExportState, bool, error) {
	var state exportModel.ExportState
	val, err := s.store.Get(ctx, stateKey(exportID))
	if s.store.IsNil(err) {
		return state, false, nil
	} else if err != nil {
		return state, false, err
	}
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return state, false, fmt.Errorf("decode export state %s: %w", exportID, err)
	}
	return state, true, nil
}

func (s *RedisStateStore) Delete(ctx context.Context, exportID string) error {
	if err := s.store.DelWithIndex(ctx, config.RedisStateIndexKey, stateKey(exportID)); err != nil {
		s.logger.Error("Error deleting export state from redis", "exportId", exportID, "error", err)
		return err
	}
	s.logger.Debug("export state deleted from redis", "exportId", exportID)
	return nil
}

// List returns every live state. Index entries whose key has expired are pruned.
func (s *RedisStateStore) List(ctx context.Context) ([]exportModel.ExportState, error) {
	keys, err := s.store.SetMembers(ctx, config.RedisStateIndexKey)
	if err != nil {
		return nil, err
	}
	out := make([]exportModel.ExportState, 0, len(keys))
	for _, key := range keys {
		val, err := s.store.Get(ctx, key)
		if s.store.IsNil(err) {
			_ = s.store.SetRemove(ctx, config.RedisStateIndexKey, key)
			continue
		} else if err != nil {
			return nil, err
		}
		var state exportModel.ExportState
		if err := json.Unmarshal([]byte(val), &state); err != nil {
			s.logger.Warn("skipping unreadable export state", "key", key, "error", err)
			continue
		}
		out = append(out, state)
	}
	sortStates(out)
	return out, nil
}
