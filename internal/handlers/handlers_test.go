package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/scanflow/internal/api"
	"github.com/akolanti/scanflow/internal/assignment"
	"github.com/akolanti/scanflow/internal/data/store"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/pages"
	"github.com/akolanti/scanflow/internal/schema"
	"github.com/akolanti/scanflow/internal/templates"
	"github.com/akolanti/scanflow/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Workspace) {
	t.Helper()
	manager, err := templates.NewManager(afero.NewMemMapFs(), "/templates")
	require.NoError(t, err)
	require.NoError(t, manager.EnsureDefaults())

	batch := pages.NewBatch(pages.DefaultCapabilities())
	states := store.InitInMemoryStateStore()
	w := worker.New(worker.Config{Pages: batch, States: states, ScratchDir: t.TempDir()})
	wg := &sync.WaitGroup{}
	w.Start(wg)
	t.Cleanup(func() {
		w.Stop()
		wg.Wait()
	})

	ws := &Workspace{
		Batch:       batch,
		Assignments: assignment.NewStore(),
		Templates:   manager,
		Worker:      w,
		States:      states,
		Environment: templates.Environment{AdvancedEngineAvailable: true},
	}
	setWorkspace(ws)

	r := chi.NewRouter()
	r.Get("/schema", GetSchemaHandler)
	r.Put("/schema", PutSchemaHandler)
	r.Post("/pages", PostPagesHandler)
	r.Get("/pages", GetPagesHandler)
	r.Post("/assignments", PostAssignmentHandler)
	r.Get("/assignments", GetAssignmentsHandler)
	r.Post("/assignments/auto", PostAutoAssignHandler)
	r.Get("/assignments/unassigned", GetUnassignedHandler)
	r.Get("/assignments/validation", GetValidationHandler)
	r.Put("/assignments/{id}", PutAssignmentHandler)
	r.Delete("/assignments/{id}", DeleteAssignmentHandler)
	r.Post("/assignments/{id}/pages", PostAssignmentPagesHandler)
	r.Delete("/assignments/{id}/pages", DeleteAssignmentPagesHandler)
	r.Get("/groups", GetGroupsHandler)
	r.Get("/templates", GetTemplatesHandler)
	r.Put("/templates", PutTemplateHandler)
	r.Delete("/templates/{name}", DeleteTemplateHandler)
	r.Get("/templates/capabilities", GetCapabilitiesHandler)
	r.Post("/exports", PostExportHandler)
	r.Get("/exports/resumable", GetResumableExportsHandler)
	r.Get("/exports/{id}", GetExportHandler)
	r.Post("/exports/{id}/cancel", PostCancelExportHandler)
	r.Post("/exports/{id}/resume", PostResumeExportHandler)
	return r, ws
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func writeScan(t *testing.T, dir string, n int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 20, 30))
	for i := range img.Pix {
		img.Pix[i] = uint8(40 * n)
	}
	path := filepath.Join(dir, fmt.Sprintf("scan%02d.png", n))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func addPages(t *testing.T, r http.Handler, n int) []api.PageResponse {
	t.Helper()
	dir := t.TempDir()
	var req api.AddPagesRequest
	for i := 1; i <= n; i++ {
		req.Pages = append(req.Pages, api.PageRequest{ImagePath: writeScan(t, dir, i), Resolution: 72})
	}
	rec := do(t, r, http.MethodPost, "/pages", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[[]api.PageResponse](t, rec)
}

func putSchema(t *testing.T, r http.Handler) {
	t.Helper()
	rec := do(t, r, http.MethodPut, "/schema", api.SchemaRequest{
		Separator: "_",
		Fields: []schema.IndexField{
			{Name: "Client", Type: schema.FieldFolder, Order: 1, IsRequired: true},
			{Name: "DocType", Type: schema.FieldFilename, Order: 2, IsRequired: true},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSchemaHandlers(t *testing.T) {
	r, _ := newTestRouter(t)
	putSchema(t, r)

	rec := do(t, r, http.MethodGet, "/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Client"`)

	rec = do(t, r, http.MethodPut, "/schema", api.SchemaRequest{Fields: []schema.IndexField{{Name: "A"}, {Name: "A"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/schema", bytes.NewBufferString("{nope"))
	raw := httptest.NewRecorder()
	r.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestPageHandlers(t *testing.T) {
	r, _ := newTestRouter(t)
	added := addPages(t, r, 3)
	require.Len(t, added, 3)
	assert.Equal(t, 3, added[2].Number)

	rec := do(t, r, http.MethodGet, "/pages", nil)
	assert.Len(t, decode[[]api.PageResponse](t, rec), 3)

	rec = do(t, r, http.MethodPost, "/pages", api.AddPagesRequest{Pages: []api.PageRequest{{ImagePath: "/x.png", Rotation: 45}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignmentLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	putSchema(t, r)
	p := addPages(t, r, 4)

	rec := do(t, r, http.MethodPost, "/assignments", api.AssignmentRequest{
		PageIDs: []string{p[0].Id, p[1].Id},
		Values:  map[string]string{"Client": "Acme", "DocType": "Invoice"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[assignment.PageAssignment](t, rec)
	assert.Equal(t, "Acme", first.FolderPathPreview)
	assert.Equal(t, "Invoice.pdf", first.FilenamePreview)

	// claiming p[1] again evicts it from the first assignment
	rec = do(t, r, http.MethodPost, "/assignments", api.AssignmentRequest{PageIDs: []string{p[1].Id, p[2].Id}})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[assignment.PageAssignment](t, rec)

	rec = do(t, r, http.MethodGet, "/assignments", nil)
	list := decode[api.AssignmentsResponse](t, rec)
	require.Len(t, list.Assignments, 2)
	assert.Equal(t, []string{p[0].Id}, list.Assignments[0].PageIDs)
	assert.Equal(t, 3, list.Summary.TotalAssignedPages)

	rec = do(t, r, http.MethodGet, "/assignments/unassigned", nil)
	assert.Equal(t, []string{p[3].Id}, decode[[]string](t, rec))

	rec = do(t, r, http.MethodGet, "/assignments/validation", nil)
	validation := decode[api.ValidationResponse](t, rec)
	assert.False(t, validation.Valid)
	assert.Len(t, validation.Errors, 2)

	rec = do(t, r, http.MethodPut, "/assignments/"+second.ID, api.AssignmentValuesRequest{Values: map[string]string{"Client": "Beta", "DocType": "Receipt"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Receipt.pdf", decode[assignment.PageAssignment](t, rec).FilenamePreview)

	rec = do(t, r, http.MethodPost, "/assignments/"+second.ID+"/pages", api.AssignmentPagesRequest{PageIDs: []string{p[3].Id}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[assignment.PageAssignment](t, rec).PageIDs, 3)

	rec = do(t, r, http.MethodPost, "/assignments/"+second.ID+"/pages", api.AssignmentPagesRequest{PageIDs: []string{"ghost"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodDelete, "/assignments/"+first.ID+"/pages", api.AssignmentPagesRequest{PageIDs: []string{p[0].Id}})
	assert.Equal(t, http.StatusNoContent, rec.Code, "empty assignment is deleted")

	rec = do(t, r, http.MethodGet, "/groups", nil)
	groups := decode[[]exportModel.DocumentGroup](t, rec)
	require.Len(t, groups, 1)
	assert.Equal(t, "Beta", groups[0].FolderPath)

	rec = do(t, r, http.MethodDelete, "/assignments/"+second.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, r, http.MethodDelete, "/assignments/"+second.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, r, http.MethodPut, "/assignments/nope", api.AssignmentValuesRequest{Values: map[string]string{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAutoAssign(t *testing.T) {
	r, _ := newTestRouter(t)
	putSchema(t, r)
	addPages(t, r, 5)

	rec := do(t, r, http.MethodPost, "/assignments/auto", api.AutoAssignRequest{PagesPerDocument: 2, Values: map[string]string{"Client": "Acme"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[api.AssignmentsResponse](t, rec)
	assert.Len(t, list.Assignments, 3)

	rec = do(t, r, http.MethodPost, "/assignments/auto", api.AutoAssignRequest{PagesPerDocument: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplateHandlers(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/templates", nil)
	assert.Len(t, decode[[]exportModel.ExportTemplate](t, rec), 7)
	rec = do(t, r, http.MethodGet, "/templates?format=tiff", nil)
	assert.Len(t, decode[[]exportModel.ExportTemplate](t, rec), 1)

	tpl := exportModel.DefaultTemplate()
	tpl.Name = "Mine"
	rec = do(t, r, http.MethodPut, "/templates", tpl)
	require.Equal(t, http.StatusOK, rec.Code)

	tpl.Quality = 3
	rec = do(t, r, http.MethodPut, "/templates", tpl)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[api.ErrorResponse](t, rec).Error.Details, "Quality must be between 10 and 100")

	rec = do(t, r, http.MethodDelete, "/templates/Mine", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, r, http.MethodDelete, "/templates/Mine", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/templates/capabilities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommended"`)
}

func TestExportNotReady(t *testing.T) {
	r, _ := newTestRouter(t)
	putSchema(t, r)
	p := addPages(t, r, 1)
	do(t, r, http.MethodPost, "/assignments", api.AssignmentRequest{PageIDs: []string{p[0].Id}})

	rec := do(t, r, http.MethodPost, "/exports", api.ExportRequest{OutputDir: t.TempDir()})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := decode[api.ErrorResponse](t, rec).Error.Details
	assert.NotEmpty(t, details)

	rec = do(t, r, http.MethodPost, "/exports", api.ExportRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, r, http.MethodPost, "/exports", api.ExportRequest{OutputDir: "/tmp", TemplateName: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportRunEndToEnd(t *testing.T) {
	r, ws := newTestRouter(t)
	putSchema(t, r)
	p := addPages(t, r, 3)
	do(t, r, http.MethodPost, "/assignments", api.AssignmentRequest{
		PageIDs: []string{p[0].Id, p[1].Id},
		Values:  map[string]string{"Client": "Acme", "DocType": "Invoice"},
	})
	do(t, r, http.MethodPost, "/assignments", api.AssignmentRequest{
		PageIDs: []string{p[2].Id},
		Values:  map[string]string{"Client": "Acme", "DocType": "Receipt"},
	})

	out := t.TempDir()
	rec := do(t, r, http.MethodPost, "/exports", api.ExportRequest{TemplateName: "Fast PDF", OutputDir: out})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	accepted := decode[api.InitExportResponse](t, rec)
	assert.Equal(t, 3, accepted.Structure.TotalPages)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, ws.Worker.Wait(ctx, accepted.Id))

	rec = do(t, r, http.MethodGet, "/exports/"+accepted.Id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[worker.RunStatus](t, rec)
	assert.Equal(t, exportModel.RunCompleted, status.Status)
	assert.Equal(t, 2, status.Successful)
	assert.FileExists(t, filepath.Join(out, "Acme", "Invoice.pdf"))
	assert.FileExists(t, filepath.Join(out, "Acme", "Receipt.pdf"))

	rec = do(t, r, http.MethodGet, "/exports/resumable", nil)
	assert.Empty(t, decode[[]api.ResumableExport](t, rec))
	rec = do(t, r, http.MethodGet, "/exports/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, r, http.MethodPost, "/exports/unknown/cancel", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResumeInterruptedExport(t *testing.T) {
	r, ws := newTestRouter(t)
	putSchema(t, r)
	p := addPages(t, r, 2)
	rec := do(t, r, http.MethodPost, "/assignments", api.AssignmentRequest{
		PageIDs: []string{p[0].Id}, Values: map[string]string{"Client": "Acme", "DocType": "One"},
	})
	first := decode[assignment.PageAssignment](t, rec)
	do(t, r, http.MethodPost, "/assignments", api.AssignmentRequest{
		PageIDs: []string{p[1].Id}, Values: map[string]string{"Client": "Acme", "DocType": "Two"},
	})

	// a previous process finished the first document and then died
	out := t.TempDir()
	state := exportModel.ExportState{
		ExportID:         "export_20240101_000000_deadbeef",
		OutputDirectory:  out,
		Template:         exportModel.DefaultTemplate(),
		TotalGroups:      2,
		CompletedGroups:  []string{first.ID},
		StartedTimestamp: time.Now(),
	}
	require.NoError(t, ws.States.Save(context.Background(), state))

	rec = do(t, r, http.MethodGet, "/exports/resumable", nil)
	resumable := decode[[]api.ResumableExport](t, rec)
	require.Len(t, resumable, 1)
	assert.Equal(t, 1, resumable[0].Completed)

	rec = do(t, r, http.MethodGet, "/exports/"+state.ExportID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, "/exports/"+state.ExportID+"/resume", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, state.ExportID, decode[api.InitExportResponse](t, rec).Id)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, ws.Worker.Wait(ctx, state.ExportID))

	status, ok := ws.Worker.Status(state.ExportID)
	require.True(t, ok)
	assert.Equal(t, exportModel.RunCompleted, status.Status)
	assert.Equal(t, 2, status.Successful)
	assert.NoFileExists(t, filepath.Join(out, "Acme", "One.pdf"), "completed documents are not written again")
	assert.FileExists(t, filepath.Join(out, "Acme", "Two.pdf"))

	rec = do(t, r, http.MethodPost, "/exports/"+state.ExportID+"/resume", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "state is gone after completion")
}
