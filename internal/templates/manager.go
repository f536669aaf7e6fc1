package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/spf13/afero"
)

var ErrTemplateNotFound = errors.New("template not found")

// Manager stores templates as <dir>/<lowercased name>.json on fs.
type Manager struct {
	mu     sync.Mutex
	fs     afero.Fs
	dir    string
	logger *logger_i.Logger
}

func NewManager(fs afero.Fs, dir string) (*Manager, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	return &Manager{fs: fs, dir: dir, logger: logger_i.NewLogger("TemplateManager")}, nil
}

// EnsureDefaults saves every built-in template whose name is not present yet.
func (m *Manager) EnsureDefaults() error {
	existing, err := m.List()
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, t := range existing {
		names[t.Name] = true
	}
	for _, t := range Defaults() {
		if names[t.Name] {
			continue
		}
		if err := m.Save(t); err != nil {
			m.logger.Warn("could not save default template", "template", t.Name, "error", err)
		}
	}
	return nil
}

// List returns every readable template sorted by name, ignoring case.
// Unreadable files are logged and skipped.
func (m *Manager) List() ([]exportModel.ExportTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := m.readAllLocked()
	if err != nil {
		return nil, err
	}
	out := make([]exportModel.ExportTemplate, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.template)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *Manager) Save(t exportModel.ExportTemplate) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := filepath.Join(m.dir, FileName(t.Name))
	if err := afero.WriteFile(m.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("save template %q: %w", t.Name, err)
	}
	m.logger.Debug("template saved", "template", t.Name, "path", path)
	return nil
}

func (m *Manager) Load(name string) (exportModel.ExportTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.findLocked(name)
	if err != nil {
		return exportModel.ExportTemplate{}, err
	}
	return e.template, nil
}

func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.findLocked(name)
	if err != nil {
		return err
	}
	return m.fs.Remove(e.path)
}

func (m *Manager) Duplicate(name, newName string) (exportModel.ExportTemplate, error) {
	t, err := m.Load(name)
	if err != nil {
		return exportModel.ExportTemplate{}, err
	}
	t.Name = newName
	t.Description = "Copy of " + t.Description
	if err := m.Save(t); err != nil {
		return exportModel.ExportTemplate{}, err
	}
	return t, nil
}

// Import reads a template file from src. A name clash gets an _imported suffix.
func (m *Manager) Import(src afero.Fs, path string) (exportModel.ExportTemplate, error) {
	data, err := afero.ReadFile(src, path)
	if err != nil {
		return exportModel.ExportTemplate{}, err
	}
	var t exportModel.ExportTemplate
	if err := json.Unmarshal(data, &t); err != nil {
		return exportModel.ExportTemplate{}, fmt.Errorf("invalid template file: %w", err)
	}
	if _, err := m.Load(t.Name); err == nil {
		t.Name += "_imported"
	}
	if err := m.Save(t); err != nil {
		return exportModel.ExportTemplate{}, err
	}
	return t, nil
}

// Export writes the named template to path on dst.
func (m *Manager) Export(name string, dst afero.Fs, path string) error {
	t, err := m.Load(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(dst, path, data, 0o644)
}

func (m *Manager) ByFormat(format exportModel.ExportFormat) ([]exportModel.ExportTemplate, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	var out []exportModel.ExportTemplate
	for _, t := range all {
		if t.Format == format {
			out = append(out, t)
		}
	}
	return out, nil
}

// Recommend picks Fast PDF for large batches and High Quality PDF otherwise,
// falling back to the first stored template and then the default.
func (m *Manager) Recommend(pageCount int, estimatedSizeMB float64) exportModel.ExportTemplate {
	all, err := m.List()
	if err != nil || len(all) == 0 {
		return exportModel.DefaultTemplate()
	}
	want := "High Quality PDF"
	if pageCount > 50 || estimatedSizeMB > 100 {
		want = "Fast PDF"
	}
	for _, t := range all {
		if t.Name == want {
			return t
		}
	}
	return all[0]
}

// FileName is the on-disk name for a template called name.
func FileName(name string) string {
	r := strings.NewReplacer(" ", "_", "/", "_")
	return strings.ToLower(r.Replace(name)) + ".json"
}

type storedTemplate struct {
	path     string
	template exportModel.ExportTemplate
}

func (m *Manager) readAllLocked() ([]storedTemplate, error) {
	infos, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	var out []storedTemplate
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		path := filepath.Join(m.dir, info.Name())
		data, err := afero.ReadFile(m.fs, path)
		if err != nil {
			m.logger.Warn("could not read template", "path", path, "error", err)
			continue
		}
		var t exportModel.ExportTemplate
		if err := json.Unmarshal(data, &t); err != nil {
			m.logger.Warn("could not parse template", "path", path, "error", err)
			continue
		}
		out = append(out, storedTemplate{path: path, template: t})
	}
	return out, nil
}

func (m *Manager) findLocked(name string) (storedTemplate, error) {
	entries, err := m.readAllLocked()
	if err != nil {
		return storedTemplate{}, err
	}
	for _, e := range entries {
		if e.template.Name == name {
			return e, nil
		}
	}
	return storedTemplate{}, fmt.Errorf("%q: %w", name, ErrTemplateNotFound)
}
