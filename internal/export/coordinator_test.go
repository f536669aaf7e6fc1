package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/scanflow/internal/data/store"
	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/imagecache"
	"github.com/akolanti/scanflow/internal/pages"
	"github.com/akolanti/scanflow/internal/render"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)

func writePNG(t *testing.T, path string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 30, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.RGBA{20, 120, 200, 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// fixtureBatch registers n pages p1..pn backed by real PNG files.
func fixtureBatch(t *testing.T, n int) *pages.Batch {
	t.Helper()
	dir := t.TempDir()
	batch := pages.NewBatch(pages.DefaultCapabilities())
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		batch.Add(commonModels.Page{Id: id, ImagePath: writePNG(t, filepath.Join(dir, id+".png")), Resolution: 72})
	}
	return batch
}

func group(id, folder, filename string, pageIDs ...string) exportModel.DocumentGroup {
	return exportModel.DocumentGroup{AssignmentID: id, PageIDs: pageIDs, FolderPath: folder, Filename: filename, PageCount: len(pageIDs)}
}

func fiveGroups() []exportModel.DocumentGroup {
	var groups []exportModel.DocumentGroup
	for i := 1; i <= 5; i++ {
		groups = append(groups, group(fmt.Sprintf("g%d", i), "Acme", fmt.Sprintf("Doc%03d.pdf", i), fmt.Sprintf("p%d", i)))
	}
	return groups
}

// countingRenderer writes a marker file per job and remembers the groups it saw.
type countingRenderer struct {
	mu     sync.Mutex
	groups []string
	failOn map[string]bool
}

func (r *countingRenderer) Render(ctx context.Context, job render.Job) (render.Result, error) {
	r.mu.Lock()
	r.groups = append(r.groups, job.GroupID)
	r.mu.Unlock()
	if r.failOn[job.GroupID] {
		return render.Result{}, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, errors.New("boom"))
	}
	if err := os.WriteFile(job.OutputPath, []byte("doc"), 0o644); err != nil {
		return render.Result{}, err
	}
	return render.Result{OutputPaths: []string{job.OutputPath}, PagesWritten: len(job.Pages)}, nil
}

func (r *countingRenderer) factory() RendererFactory {
	return func(exportModel.ExportTemplate, *imagecache.Cache) (render.Renderer, error) { return r, nil }
}

func (r *countingRenderer) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.groups...)
}

type recorder struct {
	mu        sync.Mutex
	progress  []Progress
	documents []DocumentEvent
	summaries []Summary
	onDoc     func(DocumentEvent)
}

func (r *recorder) OnProgress(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p)
}

func (r *recorder) OnDocument(d DocumentEvent) {
	r.mu.Lock()
	r.documents = append(r.documents, d)
	r.mu.Unlock()
	if r.onDoc != nil {
		r.onDoc(d)
	}
}

func (r *recorder) OnSummary(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
}

// flakyStore fails every save after the first okSaves.
type flakyStore struct {
	*store.InMemoryStateStore
	mu      sync.Mutex
	okSaves int
}

func (s *flakyStore) Save(ctx context.Context, state exportModel.ExportState) error {
	s.mu.Lock()
	if s.okSaves <= 0 {
		s.mu.Unlock()
		return errors.New("disk full")
	}
	s.okSaves--
	s.mu.Unlock()
	return s.InMemoryStateStore.Save(ctx, state)
}

func newCoordinator(batch *pages.Batch, states exportModel.StateStore, l Listener, r *countingRenderer) *Coordinator {
	cfg := Config{
		ExportID: "export_test",
		Pages:    batch,
		States:   states,
		Listener: l,
		Now:      func() time.Time { return fixedNow },
	}
	if r != nil {
		cfg.NewRenderer = r.factory()
	}
	return New(cfg)
}

func TestRun_ResumesAfterCancel(t *testing.T) {
	ctx := context.Background()
	batch := fixtureBatch(t, 5)
	states := store.InitInMemoryStateStore()
	out := t.TempDir()
	groups := fiveGroups()

	first := &countingRenderer{}
	rec := &recorder{}
	c := newCoordinator(batch, states, rec, first)
	rec.onDoc = func(d DocumentEvent) {
		if d.GroupID == "g2" {
			c.Cancel()
		}
	}
	summary, err := c.Run(ctx, groups, exportModel.DefaultTemplate(), out, nil)
	require.ErrorIs(t, err, exportModel.ErrCancelled)
	assert.Equal(t, exportModel.RunAborted, summary.Status)
	assert.Equal(t, exportModel.RunAborted, c.Status())
	assert.Equal(t, []string{"g1", "g2"}, first.seen())

	saved, found, err := states.Load(ctx, "export_test")
	require.NoError(t, err)
	require.True(t, found, "aborted run must keep its state")
	assert.Equal(t, []string{"g1", "g2"}, saved.CompletedGroups)
	assert.Equal(t, 5, saved.TotalGroups)

	second := &countingRenderer{}
	rec2 := &recorder{}
	resumed := newCoordinator(batch, states, rec2, second)
	summary, err = resumed.Run(ctx, groups, exportModel.ExportTemplate{}, "", &saved)
	require.NoError(t, err)

	assert.Equal(t, []string{"g3", "g4", "g5"}, second.seen())
	assert.Equal(t, 5, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	assert.InDelta(t, 100.0, summary.SuccessRate, 0.001)
	require.NotEmpty(t, rec2.progress)
	assert.Equal(t, 2, rec2.progress[0].Current)
	assert.Equal(t, 5, rec2.progress[0].Total)
	assert.Equal(t, "Exporting: Doc003.pdf", rec2.progress[0].Label)
	require.Len(t, rec2.summaries, 1)

	_, found, _ = states.Load(ctx, "export_test")
	assert.False(t, found, "completed run must delete its state")
	for i := 1; i <= 5; i++ {
		assert.FileExists(t, filepath.Join(out, "Acme", fmt.Sprintf("Doc%03d.pdf", i)))
	}
}

func TestRun_FailedGroupsAreNotRetried(t *testing.T) {
	ctx := context.Background()
	batch := fixtureBatch(t, 5)
	states := store.InitInMemoryStateStore()
	resume := exportModel.ExportState{
		ExportID:        "export_old",
		OutputDirectory: t.TempDir(),
		Template:        exportModel.DefaultTemplate(),
		CompletedGroups: []string{"g1"},
		FailedGroups:    []exportModel.FailedGroup{{GroupID: "g2", Message: "no valid pages"}},
	}

	r := &countingRenderer{}
	summary, err := newCoordinator(batch, states, nil, r).Run(ctx, fiveGroups(), exportModel.ExportTemplate{}, "", &resume)
	require.NoError(t, err)
	assert.Equal(t, []string{"g3", "g4", "g5"}, r.seen())
	assert.Equal(t, "export_old", summary.ExportID)
	assert.Equal(t, 4, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.InDelta(t, 80.0, summary.SuccessRate, 0.001)
}

func TestRun_MissingFilesWithBasicEngine(t *testing.T) {
	ctx := context.Background()
	batch := fixtureBatch(t, 3)
	batch.Add(commonModels.Page{Id: "gone", ImagePath: filepath.Join(t.TempDir(), "gone.png")})
	out := t.TempDir()
	groups := []exportModel.DocumentGroup{
		group("a1", "", "Mixed.pdf", "p1", "gone", "p2"),
		group("a2", "", "Empty.pdf", "gone", "unknown"),
		group("a3", "", "Single.pdf", "p3"),
	}
	rec := &recorder{}
	c := New(Config{Pages: batch, States: store.InitInMemoryStateStore(), Listener: rec, ScratchDir: t.TempDir(),
		Cache: imagecache.New(1 << 20)})

	summary, err := c.Run(ctx, groups, exportModel.DefaultTemplate(), out, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)

	n, err := api.PageCountFile(filepath.Join(out, "Mixed.pdf"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoFileExists(t, filepath.Join(out, "Empty.pdf"))
	assert.FileExists(t, filepath.Join(out, "Single.pdf"))

	require.Len(t, rec.documents, 3)
	assert.Equal(t, 1, rec.documents[0].PagesSkipped)
	assert.ErrorIs(t, rec.documents[1].Err, exportModel.ErrNoValidPages)
	assert.Equal(t, exportModel.KindGroupFailure, exportModel.KindOf(rec.documents[1].Err))
}

func TestRun_CollisionAndTimestamp(t *testing.T) {
	ctx := context.Background()
	batch := fixtureBatch(t, 1)
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "Invoice.pdf"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "Invoice_001.pdf"), []byte("old"), 0o644))

	rec := &recorder{}
	_, err := newCoordinator(batch, store.InitInMemoryStateStore(), rec, &countingRenderer{}).
		Run(ctx, []exportModel.DocumentGroup{group("g1", "", "Invoice.pdf", "p1")}, exportModel.DefaultTemplate(), out, nil)
	require.NoError(t, err)
	require.Len(t, rec.documents, 1)
	assert.Equal(t, []string{filepath.Join(out, "Invoice_002.pdf")}, rec.documents[0].OutputPaths)

	tpl := exportModel.DefaultTemplate()
	tpl.Format = exportModel.FormatTIFF
	tpl.AddTimestamp = true
	tpl.CreateFolders = false
	rec = &recorder{}
	_, err = newCoordinator(batch, store.InitInMemoryStateStore(), rec, &countingRenderer{}).
		Run(ctx, []exportModel.DocumentGroup{group("g1", "Acme", "Invoice.pdf", "p1")}, tpl, out, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "Invoice_20240305_143015.tiff")}, rec.documents[0].OutputPaths)
}

func TestRun_OverwriteExisting(t *testing.T) {
	batch := fixtureBatch(t, 1)
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "Invoice.pdf"), []byte("old"), 0o644))
	tpl := exportModel.DefaultTemplate()
	tpl.OverwriteExisting = true

	rec := &recorder{}
	_, err := newCoordinator(batch, store.InitInMemoryStateStore(), rec, &countingRenderer{}).
		Run(context.Background(), []exportModel.DocumentGroup{group("g1", "", "Invoice.pdf", "p1")}, tpl, out, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "Invoice.pdf")}, rec.documents[0].OutputPaths)
}

func TestRun_CriticalWhenStateCannotBePersisted(t *testing.T) {
	ctx := context.Background()
	batch := fixtureBatch(t, 5)
	// start, g1 pending, g1 done, g2 pending; the save closing g2 fails.
	states := &flakyStore{InMemoryStateStore: store.InitInMemoryStateStore(), okSaves: 4}
	rec := &recorder{}
	r := &countingRenderer{}

	summary, err := newCoordinator(batch, states, rec, r).Run(ctx, fiveGroups(), exportModel.DefaultTemplate(), t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, IsCritical(err))
	assert.Equal(t, exportModel.KindCritical, exportModel.KindOf(err))
	assert.Equal(t, exportModel.RunFailed, summary.Status)
	assert.Equal(t, []string{"g1", "g2"}, r.seen(), "no group may start after a failed save")

	var critical int
	for _, p := range rec.progress {
		if p.Critical {
			critical++
		}
	}
	assert.Equal(t, 1, critical)

	saved, found, _ := states.Load(ctx, "export_test")
	require.True(t, found)
	assert.Equal(t, []string{"g1"}, saved.CompletedGroups)
	require.NotNil(t, saved.Pending)
	assert.Equal(t, "g2", saved.Pending.GroupID)
	assert.Equal(t, "Doc002.pdf", filepath.Base(saved.Pending.OutputPath))
}

func TestRun_ResumeReusesPendingTarget(t *testing.T) {
	ctx := context.Background()
	batch := fixtureBatch(t, 5)
	out := t.TempDir()
	written := filepath.Join(out, "Acme", "Doc002.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(written), 0o755))
	require.NoError(t, os.WriteFile(written, []byte("committed before the crash"), 0o644))

	resume := exportModel.ExportState{
		ExportID:        "export_test",
		OutputDirectory: out,
		Template:        exportModel.DefaultTemplate(),
		CompletedGroups: []string{"g1"},
		Pending:         &exportModel.PendingGroup{GroupID: "g2", OutputPath: written},
	}
	rec := &recorder{}
	r := &countingRenderer{}
	summary, err := newCoordinator(batch, store.InitInMemoryStateStore(), rec, r).Run(ctx, fiveGroups(), exportModel.ExportTemplate{}, "", &resume)
	require.NoError(t, err)
	assert.Equal(t, []string{"g2", "g3", "g4", "g5"}, r.seen())
	assert.Equal(t, 5, summary.Successful)

	require.NotEmpty(t, rec.documents)
	assert.Equal(t, []string{written}, rec.documents[0].OutputPaths)
	assert.NoFileExists(t, filepath.Join(out, "Acme", "Doc002_001.pdf"))
	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, "doc", string(data))
}

func TestRun_PendingTargetIgnoredForOtherGroup(t *testing.T) {
	batch := fixtureBatch(t, 1)
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "Invoice.pdf"), []byte("old"), 0o644))
	resume := exportModel.ExportState{
		ExportID:        "export_test",
		OutputDirectory: out,
		Template:        exportModel.DefaultTemplate(),
		Pending:         &exportModel.PendingGroup{GroupID: "other", OutputPath: filepath.Join(out, "Invoice.pdf")},
	}
	rec := &recorder{}
	_, err := newCoordinator(batch, store.InitInMemoryStateStore(), rec, &countingRenderer{}).
		Run(context.Background(), []exportModel.DocumentGroup{group("g1", "", "Invoice.pdf", "p1")}, exportModel.ExportTemplate{}, "", &resume)
	require.NoError(t, err)
	require.Len(t, rec.documents, 1)
	assert.Equal(t, []string{filepath.Join(out, "Invoice_001.pdf")}, rec.documents[0].OutputPaths)
}

func TestRun_OverlongFilenameFailsGroup(t *testing.T) {
	rec := &recorder{}
	r := &countingRenderer{}
	c := newCoordinator(fixtureBatch(t, 1), store.InitInMemoryStateStore(), rec, r)
	groups := []exportModel.DocumentGroup{group("g1", "", strings.Repeat("A", 300)+".pdf", "p1")}

	type result struct {
		summary Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		s, err := c.Run(context.Background(), groups, exportModel.DefaultTemplate(), t.TempDir(), nil)
		done <- result{s, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("export did not finish with an overlong filename")
	}
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.summary.Successful)
	assert.Equal(t, 1, res.summary.Failed)
	assert.Empty(t, r.seen(), "nothing is rendered without a usable target")
	require.Len(t, rec.documents, 1)
	assert.Equal(t, exportModel.KindGroupFailure, exportModel.KindOf(rec.documents[0].Err))
}

func TestResolveCollision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Scan.pdf")

	got, err := resolveCollision(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	got, err = resolveCollision(path, true)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	for n := 1; n <= maxCollisionSuffix; n++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("Scan_%03d.pdf", n)), nil, 0o644))
	}
	_, err = resolveCollision(path, false)
	assert.ErrorIs(t, err, ErrNoFreeName)

	_, err = resolveCollision(filepath.Join(dir, strings.Repeat("B", 300)+".pdf"), false)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoFreeName)
}

func TestRun_CriticalWhenOutputRootUnusable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	rec := &recorder{}
	_, err := newCoordinator(fixtureBatch(t, 1), store.InitInMemoryStateStore(), rec, &countingRenderer{}).
		Run(context.Background(), fiveGroups(), exportModel.DefaultTemplate(), filepath.Join(blocker, "out"), nil)
	assert.ErrorIs(t, err, exportModel.ErrDestinationUnusable)
	assert.True(t, IsCritical(err))
	require.Len(t, rec.progress, 1)
	assert.True(t, rec.progress[0].Critical)
}

func TestRun_OnlyOnce(t *testing.T) {
	c := newCoordinator(fixtureBatch(t, 1), store.InitInMemoryStateStore(), nil, &countingRenderer{})
	_, err := c.Run(context.Background(), nil, exportModel.DefaultTemplate(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, exportModel.RunCompleted, c.Status())

	_, err = c.Run(context.Background(), nil, exportModel.DefaultTemplate(), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestRun_ContextCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &countingRenderer{}
	states := store.InitInMemoryStateStore()
	_, err := newCoordinator(fixtureBatch(t, 5), states, nil, r).Run(ctx, fiveGroups(), exportModel.DefaultTemplate(), t.TempDir(), nil)
	assert.ErrorIs(t, err, exportModel.ErrCancelled)
	assert.Empty(t, r.seen())
	_, found, _ := states.Load(context.Background(), "export_test")
	assert.True(t, found)
}

func TestRun_UnsupportedFormat(t *testing.T) {
	tpl := exportModel.DefaultTemplate()
	tpl.Format = "gif"
	c := New(Config{Pages: fixtureBatch(t, 1), States: store.InitInMemoryStateStore()})
	_, err := c.Run(context.Background(), fiveGroups(), tpl, t.TempDir(), nil)
	assert.ErrorIs(t, err, exportModel.ErrUnsupportedFormat)
	assert.Equal(t, exportModel.KindValidation, exportModel.KindOf(err))
	assert.Equal(t, exportModel.RunFailed, c.Status())
}

func TestChannelListener_DropsProgressWhenFull(t *testing.T) {
	l := NewChannelListener(1)
	l.OnProgress(Progress{Current: 1})
	l.OnProgress(Progress{Current: 2})
	assert.Len(t, l.Events, 1)
	ev := <-l.Events
	assert.Equal(t, 1, ev.Progress.Current)

	l.OnSummary(Summary{Successful: 3})
	ev = <-l.Events
	require.NotNil(t, ev.Summary)
	assert.Equal(t, 3, ev.Summary.Successful)
}

func TestNewExportID(t *testing.T) {
	id := NewExportID(fixedNow)
	assert.Regexp(t, `^export_20240305_143015_[0-9a-f]{8}$`, id)
	assert.NotEqual(t, id, NewExportID(fixedNow))
}
