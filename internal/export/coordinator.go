// Package export drives one export run: it walks the document groups in
// order, renders each one and persists progress after every group so an
// interrupted run can be resumed.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/imagecache"
	"github.com/akolanti/scanflow/internal/metrics"
	"github.com/akolanti/scanflow/internal/render"
	"github.com/akolanti/scanflow/pkg/logger_i"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type RendererFactory func(exportModel.ExportTemplate, *imagecache.Cache) (render.Renderer, error)

type Config struct {
	// ExportID names a new run. Empty means a generated id; ignored on resume.
	ExportID    string
	Pages       exportModel.PageSource
	States      exportModel.StateStore
	Cache       *imagecache.Cache
	Listener    Listener
	ScratchDir  string
	Now         func() time.Time
	NewRenderer RendererFactory
}

// Coordinator runs a single export. It is not reusable: once Run returns the
// coordinator stays in its terminal state.
type Coordinator struct {
	mu     sync.Mutex
	id     string
	status exportModel.RunStatus
	cancel chan struct{}
	once   sync.Once

	pages       exportModel.PageSource
	states      exportModel.StateStore
	cache       *imagecache.Cache
	listener    Listener
	scratchDir  string
	now         func() time.Time
	newRenderer RendererFactory
	logger      *logger_i.Logger
}

func New(cfg Config) *Coordinator {
	c := &Coordinator{
		id:          cfg.ExportID,
		status:      exportModel.RunNotStarted,
		cancel:      make(chan struct{}),
		pages:       cfg.Pages,
		states:      cfg.States,
		cache:       cfg.Cache,
		listener:    cfg.Listener,
		scratchDir:  cfg.ScratchDir,
		now:         cfg.Now,
		newRenderer: cfg.NewRenderer,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.id == "" {
		c.id = NewExportID(c.now())
	}
	if c.listener == nil {
		c.listener = noopListener{}
	}
	if c.newRenderer == nil {
		c.newRenderer = render.New
	}
	c.logger = logger_i.NewLogger("ExportCoordinator").ForExport(c.id)
	return c
}

func (c *Coordinator) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *Coordinator) Status() exportModel.RunStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Cancel asks the run to stop at the next group boundary. Safe to call more
// than once and before Run.
func (c *Coordinator) Cancel() {
	c.once.Do(func() { close(c.cancel) })
}

func (c *Coordinator) cancelled(ctx context.Context) bool {
	select {
	case <-c.cancel:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (c *Coordinator) setStatus(s exportModel.RunStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// start moves NotStarted to Running and fixes the run id.
func (c *Coordinator) start(resume *exportModel.ExportState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.status {
	case exportModel.RunNotStarted:
	case exportModel.RunRunning:
		return exportModel.ErrRunInProgress
	default:
		return fmt.Errorf("export %s already finished with status %s", c.id, c.status)
	}
	if resume != nil {
		if resume.ExportID == "" || resume.OutputDirectory == "" {
			return exportModel.ErrStateNotResumable
		}
		c.id = resume.ExportID
		c.logger = logger_i.NewLogger("ExportCoordinator").ForExport(c.id)
	}
	c.status = exportModel.RunRunning
	return nil
}

// Run exports groups in order. When resume is set, its template, output
// directory and export id replace the arguments and groups it already
// recorded are skipped.
func (c *Coordinator) Run(ctx context.Context, groups []exportModel.DocumentGroup, tpl exportModel.ExportTemplate,
	outputDir string, resume *exportModel.ExportState) (Summary, error) {
	if err := c.start(resume); err != nil {
		return Summary{ExportID: c.ID(), Status: c.Status()}, err
	}
	startedAt := time.Now()

	var state exportModel.ExportState
	if resume != nil {
		state = resume.Clone()
		tpl = state.Template
		outputDir = state.OutputDirectory
		c.logger.Info("resuming export", "completed", len(state.CompletedGroups), "failed", len(state.FailedGroups))
	} else {
		now := c.now()
		state = exportModel.ExportState{
			ExportID:            c.id,
			OutputDirectory:     outputDir,
			Template:            tpl,
			CompletedGroups:     []string{},
			FailedGroups:        []exportModel.FailedGroup{},
			StartedTimestamp:    now,
			LastUpdateTimestamp: now,
		}
	}
	state.TotalGroups = len(groups)
	state.Status = exportModel.RunRunning

	renderer, err := c.newRenderer(tpl, c.cache)
	if err != nil {
		c.setStatus(exportModel.RunFailed)
		metrics.CaptureRunMetrics(string(exportModel.RunFailed), time.Since(startedAt))
		return c.summary(state, exportModel.RunFailed), &exportModel.ExportError{Kind: exportModel.KindValidation, Err: err}
	}
	if c.cache != nil {
		defer c.cache.Clear()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return c.critical(ctx, state, startedAt, fmt.Errorf("%w: %s: %w", exportModel.ErrDestinationUnusable, outputDir, err))
	}
	if err := c.states.Save(ctx, state); err != nil {
		return c.critical(ctx, state, startedAt, fmt.Errorf("persist export state: %w", err))
	}

	c.logger.Info("export started", "groups", len(groups), "format", tpl.Format, "outputDir", outputDir)
	current := len(state.CompletedGroups) + len(state.FailedGroups)
	for _, group := range groups {
		if c.cancelled(ctx) {
			return c.abort(ctx, state, startedAt)
		}
		if state.IsCompleted(group.AssignmentID) || state.IsFailed(group.AssignmentID) {
			continue
		}

		now := c.now()
		name := outputFilename(group.Filename, tpl, now)
		c.listener.OnProgress(Progress{ExportID: c.id, Current: current, Total: len(groups), Label: "Exporting: " + name})

		event, err := c.exportGroup(ctx, renderer, &state, group, tpl, outputDir, name)
		if err != nil {
			return c.critical(ctx, state, startedAt, err)
		}
		state.Pending = nil
		if event.Err != nil {
			state.FailedGroups = append(state.FailedGroups, exportModel.FailedGroup{GroupID: group.AssignmentID, Message: event.Err.Error()})
		} else {
			state.CompletedGroups = append(state.CompletedGroups, group.AssignmentID)
		}
		current++
		state.LastUpdateTimestamp = c.now()
		if err := c.states.Save(ctx, state); err != nil {
			return c.critical(ctx, state, startedAt, fmt.Errorf("persist export state: %w", err))
		}
		c.listener.OnDocument(event)
	}

	state.Status = exportModel.RunCompleted
	c.setStatus(exportModel.RunCompleted)
	if err := c.states.Delete(ctx, state.ExportID); err != nil {
		c.logger.Warn("could not remove export state", "error", err)
	}
	summary := c.summary(state, exportModel.RunCompleted)
	metrics.CaptureRunMetrics(string(exportModel.RunCompleted), time.Since(startedAt))
	c.logger.Info("export completed", "successful", summary.Successful, "failed", summary.Failed, "total", summary.Total)
	c.listener.OnSummary(summary)
	return summary, nil
}

// exportGroup resolves, renders and reports one group. Problems are recorded
// against the group; the returned error is critical and only set when the
// pending target cannot be persisted.
func (c *Coordinator) exportGroup(ctx context.Context, renderer render.Renderer, state *exportModel.ExportState,
	group exportModel.DocumentGroup, tpl exportModel.ExportTemplate, root, name string) (DocumentEvent, error) {
	log := c.logger.With("groupId", group.AssignmentID, "document", name)
	event := DocumentEvent{ExportID: c.id, GroupID: group.AssignmentID, Name: name}
	startedAt := time.Now()

	fail := func(err error) (DocumentEvent, error) {
		event.Err = err
		log.Error("document failed", "error", err)
		metrics.CaptureGroupMetrics(string(tpl.Format), outcomeFailure, time.Since(startedAt))
		return event, nil
	}

	dir := documentDir(root, group, tpl)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(exportModel.NewGroupError(exportModel.KindGroupFailure, group.AssignmentID,
			fmt.Errorf("create folder %s: %w", dir, err)))
	}

	pages := c.resolvePages(group, log)
	event.PagesSkipped = len(group.PageIDs) - len(pages)
	if len(pages) == 0 {
		metrics.AddPagesSkipped(event.PagesSkipped)
		return fail(exportModel.NewGroupError(exportModel.KindGroupFailure, group.AssignmentID, exportModel.ErrNoValidPages))
	}

	target, err := c.target(state, group, filepath.Join(dir, name), tpl)
	if err != nil {
		return fail(exportModel.NewGroupError(exportModel.KindGroupFailure, group.AssignmentID, err))
	}
	state.Pending = &exportModel.PendingGroup{GroupID: group.AssignmentID, OutputPath: target}
	state.LastUpdateTimestamp = c.now()
	if err := c.states.Save(ctx, *state); err != nil {
		return event, fmt.Errorf("persist export state: %w", err)
	}

	job := render.Job{
		GroupID:    group.AssignmentID,
		Pages:      pages,
		OutputPath: target,
		ScratchDir: c.scratchDir,
	}
	res, err := renderer.Render(ctx, job)
	for _, skipped := range res.Skipped {
		log.Warn("page skipped", "pageId", skipped.PageID, "error", skipped.Err)
	}
	event.PagesSkipped += len(res.Skipped)
	metrics.AddPagesSkipped(event.PagesSkipped)
	if err != nil {
		return fail(err)
	}

	event.OutputPaths = res.OutputPaths
	event.PagesWritten = res.PagesWritten
	metrics.CaptureGroupMetrics(string(tpl.Format), outcomeSuccess, time.Since(startedAt))
	log.Info("document exported", "path", job.OutputPath, "pages", res.PagesWritten, "skipped", event.PagesSkipped)
	return event, nil
}

// target picks the output path of a group. A group that was pending when an
// earlier attempt stopped goes back to the path it was given then, so its
// output is replaced rather than duplicated.
func (c *Coordinator) target(state *exportModel.ExportState, group exportModel.DocumentGroup,
	path string, tpl exportModel.ExportTemplate) (string, error) {
	if p := state.Pending; p != nil && p.GroupID == group.AssignmentID && filepath.Dir(p.OutputPath) == filepath.Dir(path) {
		c.logger.Info("reusing target of interrupted document", "groupId", group.AssignmentID, "path", p.OutputPath)
		return p.OutputPath, nil
	}
	return resolveCollision(path, tpl.OverwriteExisting)
}

// resolvePages drops ids the page source does not know and pages whose image
// is gone from disk.
func (c *Coordinator) resolvePages(group exportModel.DocumentGroup, log *logger_i.Logger) []commonModels.Page {
	pages := make([]commonModels.Page, 0, len(group.PageIDs))
	for _, id := range group.PageIDs {
		page, err := c.pages.GetPage(id)
		if err != nil {
			log.Warn("page not found", "pageId", id, "error", err)
			continue
		}
		if _, err := os.Stat(page.ImagePath); err != nil {
			log.Warn("page image missing", "pageId", id, "path", page.ImagePath, "error", err)
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

// abort stops at a group boundary. The state is kept so the run can resume.
func (c *Coordinator) abort(ctx context.Context, state exportModel.ExportState, startedAt time.Time) (Summary, error) {
	state.Status = exportModel.RunAborted
	state.LastUpdateTimestamp = c.now()
	// ctx may already be done; the last save must still land.
	if err := c.states.Save(context.WithoutCancel(ctx), state); err != nil {
		c.logger.Warn("could not persist aborted state", "error", err)
	}
	c.setStatus(exportModel.RunAborted)
	metrics.CaptureRunMetrics(string(exportModel.RunAborted), time.Since(startedAt))
	summary := c.summary(state, exportModel.RunAborted)
	c.logger.Info("export cancelled", "completed", summary.Successful, "failed", summary.Failed)
	c.listener.OnSummary(summary)
	return summary, exportModel.ErrCancelled
}

// critical ends the run after a failure no group can absorb. Whatever state
// was last persisted stays in the store.
func (c *Coordinator) critical(ctx context.Context, state exportModel.ExportState, startedAt time.Time, cause error) (Summary, error) {
	err := exportModel.NewCriticalError(cause)
	c.setStatus(exportModel.RunFailed)
	metrics.CaptureRunMetrics(string(exportModel.RunFailed), time.Since(startedAt))
	c.logger.Error("export aborted", "error", err)
	done := len(state.CompletedGroups) + len(state.FailedGroups)
	c.listener.OnProgress(Progress{ExportID: c.id, Current: done, Total: state.TotalGroups, Label: err.Error(), Critical: true})
	return c.summary(state, exportModel.RunFailed), err
}

func (c *Coordinator) summary(state exportModel.ExportState, status exportModel.RunStatus) Summary {
	s := Summary{
		ExportID:   c.id,
		Status:     status,
		Successful: len(state.CompletedGroups),
		Failed:     len(state.FailedGroups),
		Total:      state.TotalGroups,
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.Total) * 100
	}
	return s
}

// IsCritical reports whether err ended a run rather than a single group.
func IsCritical(err error) bool {
	return errors.Is(err, exportModel.ErrCritical)
}
