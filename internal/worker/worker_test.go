package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/scanflow/internal/data/store"
	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/imagecache"
	"github.com/akolanti/scanflow/internal/pages"
	"github.com/akolanti/scanflow/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRenderer counts jobs and can be held at a gate until released.
type mockRenderer struct {
	rendered int32
	gate     chan struct{}
	entered  chan struct{}
}

func (m *mockRenderer) Render(ctx context.Context, job render.Job) (render.Result, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
	atomic.AddInt32(&m.rendered, 1)
	if err := os.WriteFile(job.OutputPath, []byte("doc"), 0o644); err != nil {
		return render.Result{}, err
	}
	return render.Result{OutputPaths: []string{job.OutputPath}, PagesWritten: len(job.Pages)}, nil
}

func (m *mockRenderer) count() int {
	return int(atomic.LoadInt32(&m.rendered))
}

func setup(t *testing.T, r *mockRenderer, buffer int) (*Worker, *store.InMemoryStateStore) {
	t.Helper()
	dir := t.TempDir()
	batch := pages.NewBatch(pages.DefaultCapabilities())
	for i := 1; i <= 3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("p%d.png", i))
		require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
		batch.Add(commonModels.Page{Id: fmt.Sprintf("p%d", i), ImagePath: path})
	}
	states := store.InitInMemoryStateStore()
	w := New(Config{
		Pages:       batch,
		States:      states,
		BufferLimit: buffer,
		CancelWait:  100 * time.Millisecond,
		NewRenderer: func(exportModel.ExportTemplate, *imagecache.Cache) (render.Renderer, error) { return r, nil },
	})
	return w, states
}

func request(t *testing.T) Request {
	var groups []exportModel.DocumentGroup
	for i := 1; i <= 3; i++ {
		groups = append(groups, exportModel.DocumentGroup{
			AssignmentID: fmt.Sprintf("g%d", i),
			PageIDs:      []string{fmt.Sprintf("p%d", i)},
			Filename:     fmt.Sprintf("Doc%d.pdf", i),
			PageCount:    1,
		})
	}
	return Request{Groups: groups, Template: exportModel.DefaultTemplate(), OutputDir: t.TempDir(), TraceID: "trace-1"}
}

func waitFor(t *testing.T, w *Worker, id string) RunStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx, id))
	status, ok := w.Status(id)
	require.True(t, ok)
	return status
}

func TestWorker_ProcessesRunsInOrder(t *testing.T) {
	r := &mockRenderer{}
	w, _ := setup(t, r, 4)
	wg := &sync.WaitGroup{}
	w.Start(wg)
	defer func() {
		w.Stop()
		wg.Wait()
	}()

	first, err := w.Submit(request(t))
	require.NoError(t, err)
	second, err := w.Submit(request(t))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	status := waitFor(t, w, second)
	assert.Equal(t, exportModel.RunCompleted, status.Status)
	assert.Equal(t, 3, status.Successful)
	assert.Len(t, status.Documents, 3)
	assert.NotNil(t, status.StartedAt)
	assert.NotNil(t, status.EndedAt)

	firstStatus, _ := w.Status(first)
	assert.Equal(t, exportModel.RunCompleted, firstStatus.Status)
	assert.True(t, firstStatus.EndedAt.Before(*status.StartedAt) || firstStatus.EndedAt.Equal(*status.StartedAt))
	assert.Equal(t, 6, r.count())

	runs := w.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ExportID)
}

func TestWorker_QueueFull(t *testing.T) {
	w, _ := setup(t, &mockRenderer{}, 1)

	_, err := w.Submit(request(t))
	require.NoError(t, err)
	_, err = w.Submit(request(t))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestWorker_CancelQueuedRun(t *testing.T) {
	r := &mockRenderer{}
	w, states := setup(t, r, 2)

	id, err := w.Submit(request(t))
	require.NoError(t, err)
	require.NoError(t, w.Cancel(id))

	wg := &sync.WaitGroup{}
	w.Start(wg)
	defer func() {
		w.Stop()
		wg.Wait()
	}()

	status := waitFor(t, w, id)
	assert.Equal(t, exportModel.RunAborted, status.Status)
	assert.Zero(t, r.count())
	list, _ := states.List(context.Background())
	assert.Empty(t, list, "a run cancelled in the queue never writes state")
}

func TestWorker_CancelRunningRun(t *testing.T) {
	r := &mockRenderer{gate: make(chan struct{}), entered: make(chan struct{}, 3)}
	w, states := setup(t, r, 2)
	wg := &sync.WaitGroup{}
	w.Start(wg)
	defer func() {
		w.Stop()
		wg.Wait()
	}()

	id, err := w.Submit(request(t))
	require.NoError(t, err)
	<-r.entered

	// the renderer is still holding the first group, so the bounded wait expires
	assert.ErrorIs(t, w.Cancel(id), ErrCancelTimeout)
	close(r.gate)

	status := waitFor(t, w, id)
	assert.Equal(t, exportModel.RunAborted, status.Status)
	assert.Equal(t, 1, r.count())
	assert.Equal(t, 1, status.Successful)

	saved, found, err := states.Load(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found, "a cancelled run keeps its state for resume")
	assert.Equal(t, []string{"g1"}, saved.CompletedGroups)

	// resuming picks up the remaining groups
	req := request(t)
	req.Resume = &saved
	resumedID, err := w.Submit(req)
	require.NoError(t, err)
	assert.Equal(t, id, resumedID)
	status = waitFor(t, w, id)
	assert.Equal(t, exportModel.RunCompleted, status.Status)
	assert.Equal(t, 3, status.Successful)
	assert.Equal(t, 3, r.count())
}

func TestWorker_CancelUnknownRun(t *testing.T) {
	w, _ := setup(t, &mockRenderer{}, 1)
	assert.ErrorIs(t, w.Cancel("nope"), ErrRunNotFound)
}

func TestWorker_StopAbortsQueuedRuns(t *testing.T) {
	r := &mockRenderer{gate: make(chan struct{}), entered: make(chan struct{}, 3)}
	w, _ := setup(t, r, 4)
	wg := &sync.WaitGroup{}
	w.Start(wg)

	running, err := w.Submit(request(t))
	require.NoError(t, err)
	<-r.entered
	queued, err := w.Submit(request(t))
	require.NoError(t, err)

	w.Stop()
	close(r.gate)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop within timeout")
	}

	s, _ := w.Status(running)
	assert.Equal(t, exportModel.RunAborted, s.Status)
	s, _ = w.Status(queued)
	assert.Equal(t, exportModel.RunAborted, s.Status)

	_, err = w.Submit(request(t))
	assert.ErrorIs(t, err, ErrStopped)
}
