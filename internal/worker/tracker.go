package worker

import (
	"sync"
	"time"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/export"
)

type DocumentRecord struct {
	GroupID      string   `json:"group_id"`
	Name         string   `json:"document_name"`
	OutputPaths  []string `json:"output_paths,omitempty"`
	PagesWritten int      `json:"pages_written"`
	PagesSkipped int      `json:"pages_skipped"`
	Error        string   `json:"error,omitempty"`
}

// RunStatus is the caller-facing view of one run.
type RunStatus struct {
	ExportID    string                `json:"export_id"`
	Status      exportModel.RunStatus `json:"status"`
	Current     int                   `json:"current"`
	Total       int                   `json:"total"`
	Label       string                `json:"label"`
	Successful  int                   `json:"successful"`
	Failed      int                   `json:"failed"`
	SuccessRate float64               `json:"success_rate"`
	Error       string                `json:"error,omitempty"`
	Documents   []DocumentRecord      `json:"documents"`
	QueuedAt    time.Time             `json:"queued_at"`
	StartedAt   *time.Time            `json:"started_at,omitempty"`
	EndedAt     *time.Time            `json:"ended_at,omitempty"`
}

func (s RunStatus) Finished() bool {
	switch s.Status {
	case exportModel.RunCompleted, exportModel.RunAborted, exportModel.RunFailed:
		return true
	}
	return false
}

// Tracker folds the events of one run into a RunStatus.
type Tracker struct {
	mu     sync.Mutex
	status RunStatus
}

func newTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) queued(exportID string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = RunStatus{
		ExportID:  exportID,
		Status:    exportModel.RunNotStarted,
		Total:     total,
		Documents: []DocumentRecord{},
		QueuedAt:  time.Now(),
	}
}

// resumed seeds the counters with what the previous attempt recorded.
func (t *Tracker) resumed(state exportModel.ExportState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Successful = len(state.CompletedGroups)
	t.status.Failed = len(state.FailedGroups)
	t.status.Current = t.status.Successful + t.status.Failed
}

// start moves a queued run to running. It fails when the run was cancelled
// while still queued.
func (t *Tracker) start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Status != exportModel.RunNotStarted {
		return false
	}
	now := time.Now()
	t.status.Status = exportModel.RunRunning
	t.status.StartedAt = &now
	return true
}

// cancelQueued aborts a run that has not started yet.
func (t *Tracker) cancelQueued() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Status != exportModel.RunNotStarted {
		return false
	}
	now := time.Now()
	t.status.Status = exportModel.RunAborted
	t.status.EndedAt = &now
	return true
}

func (t *Tracker) summarize(s export.Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.ExportID == "" {
		return
	}
	t.status.Successful = s.Successful
	t.status.Failed = s.Failed
	t.status.Total = s.Total
	t.status.SuccessRate = s.SuccessRate
}

func (t *Tracker) finish(status exportModel.RunStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.status.Status = status
	t.status.EndedAt = &now
	if err != nil {
		t.status.Error = err.Error()
	}
}

func (t *Tracker) Snapshot() RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.status
	s.Documents = append([]DocumentRecord(nil), t.status.Documents...)
	return s
}

func (t *Tracker) OnProgress(p export.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Current = p.Current
	t.status.Total = p.Total
	t.status.Label = p.Label
	if p.Critical {
		t.status.Error = p.Label
	}
}

func (t *Tracker) OnDocument(d export.DocumentEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := DocumentRecord{
		GroupID:      d.GroupID,
		Name:         d.Name,
		OutputPaths:  d.OutputPaths,
		PagesWritten: d.PagesWritten,
		PagesSkipped: d.PagesSkipped,
	}
	if d.Err != nil {
		rec.Error = d.Err.Error()
		t.status.Failed++
	} else {
		t.status.Successful++
	}
	t.status.Current++
	t.status.Documents = append(t.status.Documents, rec)
}

func (t *Tracker) OnSummary(s export.Summary) {
	t.summarize(s)
}
