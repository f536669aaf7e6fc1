package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/spf13/afero"
)

// FileStateStore keeps one JSON document per export at <dir>/<export id>.json.
type FileStateStore struct {
	mu     sync.Mutex
	fs     afero.Fs
	dir    string
	logger *logger_i.Logger
}

func NewFileStateStore(fs afero.Fs, dir string) (*FileStateStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStateStore{fs: fs, dir: dir, logger: logger_i.NewLogger("FileStateStore")}, nil
}

func (s *FileStateStore) path(exportID string) string {
	return filepath.Join(s.dir, exportID+".json")
}

// Save writes the state to a temp file and renames it over the previous one,
// so a crash never leaves a half-written state behind.
func (s *FileStateStore) Save(ctx context.Context, state exportModel.ExportState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := afero.TempFile(s.fs, s.dir, state.ExportID+".*.tmp")
	if err != nil {
		return fmt.Errorf("save export state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("save export state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("save export state: %w", err)
	}
	if err := s.fs.Rename(tmp.Name(), s.path(state.ExportID)); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("save export state: %w", err)
	}
	s.logger.Debug("saved export state", "exportId", state.ExportID)
	return nil
}

func (s *FileStateStore) Load(ctx context.Context, exportID string) (exportModel.ExportState, bool, error) {
	var state exportModel.ExportState
	s.mu.Lock()
	data, err := afero.ReadFile(s.fs, s.path(exportID))
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return state, false, nil
	} else if err != nil {
		return state, false, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, false, fmt.Errorf("decode export state %s: %w", exportID, err)
	}
	return state, true, nil
}

func (s *FileStateStore) Delete(ctx context.Context, exportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.Remove(s.path(exportID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns every readable state in the directory, newest first.
func (s *FileStateStore) List(ctx context.Context) ([]exportModel.ExportState, error) {
	s.mu.Lock()
	infos, err := afero.ReadDir(s.fs, s.dir)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []exportModel.ExportState
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		state, found, err := s.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil || !found {
			s.logger.Warn("skipping unreadable export state", "file", name, "error", err)
			continue
		}
		out = append(out, state)
	}
	sortStates(out)
	return out, nil
}
