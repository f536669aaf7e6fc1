package templates

import (
	"encoding/json"
	"testing"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*Manager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	m, err := NewManager(fs, "export_templates")
	require.NoError(t, err)
	return m, fs
}

func TestTemplateRoundTrip(t *testing.T) {
	for _, tpl := range Defaults() {
		data, err := json.Marshal(tpl)
		require.NoError(t, err)
		var back exportModel.ExportTemplate
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, tpl, back)
	}
}

func TestTemplateUnmarshal_Defaults(t *testing.T) {
	var tpl exportModel.ExportTemplate
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Mini","format":"tiff","unknown":1}`), &tpl))
	assert.Equal(t, "Mini", tpl.Name)
	assert.Equal(t, exportModel.FormatTIFF, tpl.Format)
	assert.Equal(t, 95, tpl.Quality)
	assert.Equal(t, exportModel.Margins{0.5, 0.5, 0.5, 0.5}, tpl.Margins)
	assert.True(t, tpl.FitToPage)

	assert.Error(t, json.Unmarshal([]byte(`{"name":"Bad","format":"gif"}`), &tpl))
}

func TestValidate(t *testing.T) {
	tpl := exportModel.DefaultTemplate()
	assert.Empty(t, Validate(tpl, Environment{}))

	tpl.Name = "  "
	tpl.Quality = 5
	tpl.Margins = exportModel.Margins{0, -1, 0, -2}
	tpl.PDFEngine = exportModel.EngineAdvanced
	errs := Validate(tpl, Environment{AdvancedEngineAvailable: false})
	assert.Equal(t, []string{
		"Template name is required",
		"Quality must be between 10 and 100",
		"Margins cannot be negative",
		"Advanced PDF engine is not available but required for advanced PDF features",
	}, errs)

	assert.Len(t, Validate(tpl, Environment{AdvancedEngineAvailable: true}), 3)
}

func TestManager_EnsureDefaultsAndList(t *testing.T) {
	m, fs := newManager(t)
	require.NoError(t, m.EnsureDefaults())
	require.NoError(t, m.EnsureDefaults())

	all, err := m.List()
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, "A4 PDF", all[0].Name)
	assert.Equal(t, "Web Images", all[6].Name)

	exists, err := afero.Exists(fs, "export_templates/high_quality_pdf.json")
	require.NoError(t, err)
	assert.True(t, exists)

	pdfs, err := m.ByFormat(exportModel.FormatPDF)
	require.NoError(t, err)
	assert.Len(t, pdfs, 5)
}

func TestManager_CRUD(t *testing.T) {
	m, fs := newManager(t)
	tpl := exportModel.DefaultTemplate()
	tpl.Name = "Client/Invoices"
	require.NoError(t, m.Save(tpl))
	assert.Equal(t, "client_invoices.json", FileName(tpl.Name))

	got, err := m.Load("Client/Invoices")
	require.NoError(t, err)
	assert.Equal(t, tpl, got)

	dup, err := m.Duplicate("Client/Invoices", "Copy")
	require.NoError(t, err)
	assert.Equal(t, "Copy of Basic PDF export", dup.Description)

	require.NoError(t, m.Export("Copy", fs, "/tmp/copy.json"))
	imported, err := m.Import(fs, "/tmp/copy.json")
	require.NoError(t, err)
	assert.Equal(t, "Copy_imported", imported.Name)

	require.NoError(t, m.Delete("Copy"))
	_, err = m.Load("Copy")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorIs(t, m.Delete("Copy"), ErrTemplateNotFound)
}

func TestManager_SkipsCorruptFiles(t *testing.T) {
	m, fs := newManager(t)
	require.NoError(t, afero.WriteFile(fs, "export_templates/broken.json", []byte("{"), 0o644))
	require.NoError(t, m.Save(exportModel.DefaultTemplate()))

	all, err := m.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecommend(t *testing.T) {
	m, _ := newManager(t)
	assert.Equal(t, "Default", m.Recommend(10, 1).Name)

	require.NoError(t, m.EnsureDefaults())
	assert.Equal(t, "Fast PDF", m.Recommend(51, 1).Name)
	assert.Equal(t, "Fast PDF", m.Recommend(1, 101).Name)
	assert.Equal(t, "High Quality PDF", m.Recommend(10, 5).Name)
}
