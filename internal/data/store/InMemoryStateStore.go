package store

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem StateStore")

type InMemoryStateStore struct {
	stateMutex *sync.RWMutex
	stateMap   map[string]exportModel.ExportState
}

func InitInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		stateMutex: new(sync.RWMutex),
		stateMap:   make(map[string]exportModel.ExportState),
	}
}

func (store *InMemoryStateStore) Save(ctx context.Context, state exportModel.ExportState) error {
	store.stateMutex.Lock()
	defer store.stateMutex.Unlock()
	store.stateMap[state.ExportID] = state.Clone()
	inMemLogger.Debug("saved export state", "exportId", state.ExportID, "completed", len(state.CompletedGroups))
	return nil
}

func (store *InMemoryStateStore) Load(ctx context.Context, exportID string) (exportModel.ExportState, bool, error) {
	store.stateMutex.RLock()
	defer store.stateMutex.RUnlock()
	result, found := store.stateMap[exportID]
	return result.Clone(), found, nil
}

func (store *InMemoryStateStore) Delete(ctx context.Context, exportID string) error {
	store.stateMutex.Lock()
	defer store.stateMutex.Unlock()
	delete(store.stateMap, exportID)
	return nil
}

func (store *InMemoryStateStore) List(ctx context.Context) ([]exportModel.ExportState, error) {
	store.stateMutex.RLock()
	defer store.stateMutex.RUnlock()
	out := make([]exportModel.ExportState, 0, len(store.stateMap))
	for _, s := range store.stateMap {
		out = append(out, s.Clone())
	}
	sortStates(out)
	return out, nil
}

// sortStates orders states newest first.
func sortStates(states []exportModel.ExportState) {
	sort.Slice(states, func(i, j int) bool {
		return states[i].StartedTimestamp.After(states[j].StartedTimestamp)
	})
}
