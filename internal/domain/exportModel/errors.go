package exportModel

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "Validation"
	KindPageFailure   ErrorKind = "PageFailure"
	KindGroupFailure  ErrorKind = "GroupFailure"
	KindEngineFailure ErrorKind = "EngineFailure"
	KindCritical      ErrorKind = "Critical"
)

var (
	ErrNoValidPages        = errors.New("no valid pages")
	ErrEngineUnavailable   = errors.New("pdf engine unavailable")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrRunInProgress       = errors.New("export run already in progress")
	ErrCancelled           = errors.New("export cancelled")
	ErrStateNotResumable   = errors.New("export state is not resumable")
	ErrDestinationUnusable = errors.New("destination directory cannot be created")
	ErrCritical            = errors.New("export aborted")
)

// ExportError tags a failure with the level it affects.
type ExportError struct {
	Kind    ErrorKind
	GroupID string
	PageID  string
	Err     error
}

func (e *ExportError) Error() string {
	switch {
	case e.PageID != "":
		return fmt.Sprintf("%s: page %s: %v", e.Kind, e.PageID, e.Err)
	case e.GroupID != "":
		return fmt.Sprintf("%s: group %s: %v", e.Kind, e.GroupID, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func NewGroupError(kind ErrorKind, groupID string, err error) *ExportError {
	return &ExportError{Kind: kind, GroupID: groupID, Err: err}
}

// NewCriticalError marks a failure that stops the whole run.
func NewCriticalError(err error) *ExportError {
	return &ExportError{Kind: KindCritical, Err: fmt.Errorf("%w: %w", ErrCritical, err)}
}

func NewPageError(pageID string, err error) *ExportError {
	return &ExportError{Kind: KindPageFailure, PageID: pageID, Err: err}
}

// KindOf reports the kind of the first ExportError in err's chain.
// Untyped errors count as group failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return KindGroupFailure
}
