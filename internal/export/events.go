package export

import (
	"github.com/akolanti/scanflow/internal/domain/exportModel"
)

type Progress struct {
	ExportID string `json:"export_id"`
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	Label    string `json:"label"`
	Critical bool   `json:"critical,omitempty"`
}

// DocumentEvent reports one finished group. Err is set when the group failed.
type DocumentEvent struct {
	ExportID     string   `json:"export_id"`
	GroupID      string   `json:"group_id"`
	Name         string   `json:"document_name"`
	OutputPaths  []string `json:"output_paths,omitempty"`
	PagesWritten int      `json:"pages_written"`
	PagesSkipped int      `json:"pages_skipped"`
	Err          error    `json:"-"`
}

type Summary struct {
	ExportID    string                `json:"export_id"`
	Status      exportModel.RunStatus `json:"status"`
	Successful  int                   `json:"successful"`
	Failed      int                   `json:"failed"`
	Total       int                   `json:"total"`
	SuccessRate float64               `json:"success_rate"`
}

// Listener receives run events on the worker goroutine. Implementations must
// not block for long.
type Listener interface {
	OnProgress(Progress)
	OnDocument(DocumentEvent)
	OnSummary(Summary)
}

type Event struct {
	Progress *Progress
	Document *DocumentEvent
	Summary  *Summary
}

// ChannelListener forwards events onto a buffered channel. Progress events
// are dropped when the channel is full; document, critical and summary
// events are always delivered.
type ChannelListener struct {
	Events chan Event
}

func NewChannelListener(buffer int) *ChannelListener {
	return &ChannelListener{Events: make(chan Event, buffer)}
}

func (l *ChannelListener) OnProgress(p Progress) {
	if p.Critical {
		l.Events <- Event{Progress: &p}
		return
	}
	select {
	case l.Events <- Event{Progress: &p}:
	default:
	}
}

func (l *ChannelListener) OnDocument(d DocumentEvent) {
	l.Events <- Event{Document: &d}
}

func (l *ChannelListener) OnSummary(s Summary) {
	l.Events <- Event{Summary: &s}
}

// Listeners fans events out to several listeners in order.
type Listeners []Listener

func (ls Listeners) OnProgress(p Progress) {
	for _, l := range ls {
		l.OnProgress(p)
	}
}

func (ls Listeners) OnDocument(d DocumentEvent) {
	for _, l := range ls {
		l.OnDocument(d)
	}
}

func (ls Listeners) OnSummary(s Summary) {
	for _, l := range ls {
		l.OnSummary(s)
	}
}

type noopListener struct{}

func (noopListener) OnProgress(Progress)      {}
func (noopListener) OnDocument(DocumentEvent) {}
func (noopListener) OnSummary(Summary)        {}
