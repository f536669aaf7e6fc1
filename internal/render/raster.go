package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/disintegration/imaging"
)

// RasterRenderer writes one image file per page. A single-page group is
// written to the output path itself.
type RasterRenderer struct {
	Format      exportModel.ExportFormat
	Quality     int
	Compression exportModel.Compression
	loader      *pageLoader
	logger      *logger_i.Logger
}

// PagePath is the file used for page n (1-based) of a multi-page group.
func PagePath(outputPath string, n int) string {
	ext := filepath.Ext(outputPath)
	return fmt.Sprintf("%s_page_%03d%s", strings.TrimSuffix(outputPath, ext), n, ext)
}

func (r *RasterRenderer) Render(ctx context.Context, job Job) (Result, error) {
	defer r.loader.release()
	log := r.logger.FromContext(ctx).With("groupId", job.GroupID)

	var res Result
	for i, p := range job.Pages {
		target := job.OutputPath
		if len(job.Pages) > 1 {
			target = PagePath(job.OutputPath, i+1)
		}

		img, err := r.loader.load(p)
		if err == nil {
			err = r.writeImage(target, img)
		}
		if err != nil {
			log.Warn("skipping page", "pageId", p.Id, "error", err)
			res.skip(p, err)
			continue
		}
		res.OutputPaths = append(res.OutputPaths, target)
		res.PagesWritten++
	}

	if res.PagesWritten == 0 {
		return res, noPagesError(job, res)
	}
	return res, nil
}

func (r *RasterRenderer) writeImage(target string, img image.Image) error {
	partial := partialPath(target)
	if err := removeStale(partial); err != nil {
		return err
	}
	f, err := os.Create(partial)
	if err != nil {
		return err
	}

	var encErr error
	if r.Format == exportModel.FormatJPEG {
		encErr = imaging.Encode(f, flatten(img), imaging.JPEG, imaging.JPEGQuality(clampQuality(r.Quality)))
	} else {
		encErr = imaging.Encode(f, img, imaging.PNG, imaging.PNGCompressionLevel(pngLevel(r.Compression)))
	}
	closeErr := f.Close()
	if encErr != nil || closeErr != nil {
		_ = os.Remove(partial)
		if encErr != nil {
			return fmt.Errorf("encode %s: %w", target, encErr)
		}
		return closeErr
	}
	return commit(partial, target)
}

func pngLevel(c exportModel.Compression) png.CompressionLevel {
	switch c {
	case exportModel.CompressionNone:
		return png.NoCompression
	case exportModel.CompressionLow:
		return png.BestSpeed
	case exportModel.CompressionHigh:
		return png.BestCompression
	}
	return png.DefaultCompression
}
