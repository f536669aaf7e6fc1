// Package render turns the pages of one document group into an output file.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/imagecache"
	"github.com/akolanti/scanflow/pkg/logger_i"
)

const partialSuffix = ".partial"

// Job is one document group ready to render. Pages are in document order and
// were already resolved by the caller.
type Job struct {
	GroupID    string
	Pages      []commonModels.Page
	OutputPath string
	ScratchDir string
}

type PageFailure struct {
	PageID string
	Err    error
}

// Result describes what a renderer produced. A non-nil error from Render may
// still come with skipped pages filled in.
type Result struct {
	OutputPaths  []string
	PagesWritten int
	Skipped      []PageFailure
	FellBack     bool
}

func (r *Result) skip(page commonModels.Page, err error) {
	r.Skipped = append(r.Skipped, PageFailure{PageID: page.Id, Err: err})
}

type Renderer interface {
	Render(ctx context.Context, job Job) (Result, error)
}

// New selects the renderer for the template format. The template is copied.
func New(tpl exportModel.ExportTemplate, cache *imagecache.Cache) (Renderer, error) {
	loader := &pageLoader{cache: cache}
	switch tpl.Format {
	case exportModel.FormatPDF:
		return &PDFRenderer{
			Engine:   tpl.PDFEngine,
			template: tpl,
			loader:   loader,
			logger:   logger_i.NewLogger("PDFRenderer"),
		}, nil
	case exportModel.FormatTIFF:
		return &TIFFRenderer{
			Compression: tpl.Compression,
			loader:      loader,
			logger:      logger_i.NewLogger("TIFFRenderer"),
		}, nil
	case exportModel.FormatPNG, exportModel.FormatJPEG:
		return &RasterRenderer{
			Format:      tpl.Format,
			Quality:     tpl.Quality,
			Compression: tpl.Compression,
			loader:      loader,
			logger:      logger_i.NewLogger("RasterRenderer"),
		}, nil
	}
	return nil, fmt.Errorf("%q: %w", tpl.Format, exportModel.ErrUnsupportedFormat)
}

// AdvancedEngineAvailable reports whether the layout-aware PDF engine can be used.
func AdvancedEngineAvailable() bool {
	return true
}

func noPagesError(job Job, res Result) error {
	err := exportModel.ErrNoValidPages
	if len(res.Skipped) > 0 {
		err = fmt.Errorf("%w: %d pages skipped, last: %w", exportModel.ErrNoValidPages,
			len(res.Skipped), res.Skipped[len(res.Skipped)-1].Err)
	}
	return exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
}

func partialPath(path string) string {
	return path + partialSuffix
}

// removeStale deletes a leftover partial file from an interrupted run.
func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func commit(partial, final string) error {
	if err := os.Rename(partial, final); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("commit %s: %w", final, err)
	}
	return nil
}
