// Package worker owns the single goroutine that executes export runs one at
// a time, in the order they were submitted.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akolanti/scanflow/internal/config"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/export"
	"github.com/akolanti/scanflow/internal/imagecache"
	"github.com/akolanti/scanflow/internal/metrics"
	"github.com/akolanti/scanflow/pkg/logger_i"
)

var (
	ErrQueueFull     = errors.New("export queue is full")
	ErrRunNotFound   = errors.New("export run not found")
	ErrCancelTimeout = errors.New("export did not stop in time")
	ErrStopped       = errors.New("worker stopped")
)

// Request is a snapshot of everything a run needs. Groups must not be shared
// with the caller after submission.
type Request struct {
	Groups    []exportModel.DocumentGroup
	Template  exportModel.ExportTemplate
	OutputDir string
	Resume    *exportModel.ExportState
	TraceID   string
	// Listener receives the run events after the worker's own tracker.
	Listener export.Listener
}

type Config struct {
	Pages       exportModel.PageSource
	States      exportModel.StateStore
	Cache       *imagecache.Cache
	ScratchDir  string
	BufferLimit int
	CancelWait  time.Duration
	NewRenderer export.RendererFactory
}

type task struct {
	request     Request
	coordinator *export.Coordinator
	tracker     *Tracker
	done        chan struct{}
}

type Worker struct {
	cfg        Config
	runChannel chan *task
	stop       chan struct{}
	stopOnce   sync.Once
	wg         *sync.WaitGroup

	mu    sync.Mutex
	tasks map[string]*task
	order []string

	logger *logger_i.Logger
}

func New(cfg Config) *Worker {
	if cfg.BufferLimit <= 0 {
		cfg.BufferLimit = config.BufferLimit
	}
	if cfg.CancelWait <= 0 {
		cfg.CancelWait = config.CancelWaitTimeout
	}
	return &Worker{
		cfg:        cfg,
		runChannel: make(chan *task, cfg.BufferLimit),
		stop:       make(chan struct{}),
		tasks:      make(map[string]*task),
		logger:     logger_i.NewLogger("ExportWorker"),
	}
}

// Start launches the run loop. wg is released once the loop has exited.
func (w *Worker) Start(wg *sync.WaitGroup) {
	w.wg = wg
	wg.Add(1)
	w.logger.Info("Starting export worker", "buffer", w.cfg.BufferLimit)
	go w.loop()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case t := <-w.runChannel:
			metrics.DecrementRunsInQueue()
			w.execute(t)
		case <-w.stop:
			w.drain()
			w.logger.Info("Export worker stopped")
			return
		}
	}
}

// drain marks runs that never started as aborted.
func (w *Worker) drain() {
	for {
		select {
		case t := <-w.runChannel:
			metrics.DecrementRunsInQueue()
			w.abandon(t)
		default:
			return
		}
	}
}

// Submit queues a run and returns its export id without blocking.
func (w *Worker) Submit(req Request) (string, error) {
	select {
	case <-w.stop:
		return "", ErrStopped
	default:
	}

	tracker := newTracker()
	var listener export.Listener = tracker
	if req.Listener != nil {
		listener = export.Listeners{tracker, req.Listener}
	}
	cfg := export.Config{
		Pages:       w.cfg.Pages,
		States:      w.cfg.States,
		Cache:       w.cfg.Cache,
		Listener:    listener,
		ScratchDir:  w.cfg.ScratchDir,
		NewRenderer: w.cfg.NewRenderer,
	}
	if req.Resume != nil {
		cfg.ExportID = req.Resume.ExportID
	}
	t := &task{request: req, coordinator: export.New(cfg), tracker: tracker, done: make(chan struct{})}
	id := t.coordinator.ID()
	tracker.queued(id, len(req.Groups))
	if req.Resume != nil {
		tracker.resumed(*req.Resume)
	}

	w.mu.Lock()
	if prev, ok := w.tasks[id]; ok && !prev.tracker.Snapshot().Finished() {
		w.mu.Unlock()
		return "", exportModel.ErrRunInProgress
	}
	select {
	case w.runChannel <- t:
	default:
		w.mu.Unlock()
		return "", ErrQueueFull
	}
	if _, ok := w.tasks[id]; !ok {
		w.order = append(w.order, id)
	}
	w.tasks[id] = t
	w.mu.Unlock()

	metrics.IncrementRunsInQueue()
	w.logger.Info("Export queued", "exportId", id, config.TRACE_ID_KEY, req.TraceID, "groups", len(req.Groups))
	return id, nil
}

func (w *Worker) abandon(t *task) {
	t.tracker.finish(exportModel.RunAborted, ErrStopped)
	close(t.done)
}

func (w *Worker) execute(t *task) {
	select {
	case <-w.stop:
		w.abandon(t)
		return
	default:
	}
	defer close(t.done)
	log := w.logger.ForExport(t.coordinator.ID()).With(config.TRACE_ID_KEY, t.request.TraceID)
	if !t.tracker.start() {
		log.Info("Skipping export cancelled while queued")
		return
	}

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, t.request.TraceID)
	go func() {
		select {
		case <-w.stop:
			t.coordinator.Cancel()
		case <-t.done:
		}
	}()

	log.Debug("Processing export")
	summary, err := t.coordinator.Run(ctx, t.request.Groups, t.request.Template, t.request.OutputDir, t.request.Resume)
	t.tracker.summarize(summary)
	switch {
	case errors.Is(err, exportModel.ErrCancelled):
		t.tracker.finish(exportModel.RunAborted, nil)
	case err != nil:
		log.Error("Export failed", "error", err)
		t.tracker.finish(exportModel.RunFailed, err)
	default:
		t.tracker.finish(exportModel.RunCompleted, nil)
	}
}

// Cancel stops the run at the next group boundary and waits a bounded time
// for it to get there. Runs still in the queue are dropped immediately.
func (w *Worker) Cancel(exportID string) error {
	w.mu.Lock()
	t, ok := w.tasks[exportID]
	w.mu.Unlock()
	if !ok {
		return ErrRunNotFound
	}
	if t.tracker.Snapshot().Finished() {
		return nil
	}

	if t.tracker.cancelQueued() {
		w.logger.Info("Cancelled queued export", "exportId", exportID)
		return nil
	}
	t.coordinator.Cancel()
	select {
	case <-t.done:
		return nil
	case <-time.After(w.cfg.CancelWait):
		w.logger.Warn("Export still running after cancel", "exportId", exportID, "wait", w.cfg.CancelWait)
		return ErrCancelTimeout
	}
}

// Status returns the tracked view of a run submitted to this worker.
func (w *Worker) Status(exportID string) (RunStatus, bool) {
	w.mu.Lock()
	t, ok := w.tasks[exportID]
	w.mu.Unlock()
	if !ok {
		return RunStatus{}, false
	}
	return t.tracker.Snapshot(), true
}

// Runs lists every run this worker has seen, in submission order.
func (w *Worker) Runs() []RunStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]RunStatus, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.tasks[id].tracker.Snapshot())
	}
	return out
}

// Wait blocks until the run leaves the worker or ctx is done.
func (w *Worker) Wait(ctx context.Context, exportID string) error {
	w.mu.Lock()
	t, ok := w.tasks[exportID]
	w.mu.Unlock()
	if !ok {
		return ErrRunNotFound
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels the current run and stops the loop. Queued runs are aborted.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}
