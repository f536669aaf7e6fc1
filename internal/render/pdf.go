package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/metrics"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	errNoContentArea = errors.New("margins leave no room for the image")
	configDirOnce    sync.Once

	// importPlaced appends one laid-out page for the advanced engine.
	importPlaced = api.ImportImagesFile
)

// PDFRenderer assembles one PDF per group. The advanced engine lays pages out
// on a fixed or derived page size; the basic engine makes one page per image.
type PDFRenderer struct {
	Engine   exportModel.PDFEngine
	template exportModel.ExportTemplate
	loader   *pageLoader
	logger   *logger_i.Logger
}

func pdfConfig() *model.Configuration {
	configDirOnce.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func (r *PDFRenderer) Render(ctx context.Context, job Job) (Result, error) {
	defer r.loader.release()
	log := r.logger.FromContext(ctx).With("groupId", job.GroupID)

	if r.Engine != exportModel.EngineAdvanced {
		return r.renderBasic(job, log)
	}

	res, err := r.renderAdvanced(job, log)
	if err == nil || exportModel.KindOf(err) != exportModel.KindEngineFailure {
		return res, err
	}
	log.Warn("advanced pdf engine failed, falling back to basic", "error", err)
	metrics.IncrementEngineFallback()
	res, err = r.renderBasic(job, log)
	res.FellBack = true
	return res, err
}

func (r *PDFRenderer) renderAdvanced(job Job, log *logger_i.Logger) (res Result, err error) {
	tpl := r.template
	partial := partialPath(job.OutputPath)
	if err := removeStale(partial); err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	dir, cleanup, err := scratchDir(job)
	if err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	defer cleanup()

	defer func() {
		if rec := recover(); rec != nil {
			_ = os.Remove(partial)
			err = exportModel.NewGroupError(exportModel.KindEngineFailure, job.GroupID,
				fmt.Errorf("%w: %v", exportModel.ErrEngineUnavailable, rec))
		}
	}()

	conf := pdfConfig()
	var page *Size
	for i, p := range job.Pages {
		img, err := r.loader.load(p)
		if err != nil {
			log.Warn("skipping page", "pageId", p.Id, "error", err)
			res.skip(p, err)
			continue
		}
		b := img.Bounds()
		if page == nil {
			size := PageSizeFor(tpl.PageSize, b.Dx(), b.Dy(), p.Resolution)
			page = &size
		}
		place := Place(ContentBox(*page, tpl.Margins), b.Dx(), b.Dy(), p.Resolution, tpl.FitToPage, tpl.MaintainAspectRatio)
		if place.W <= 0 || place.H <= 0 {
			log.Warn("skipping page", "pageId", p.Id, "error", errNoContentArea)
			res.skip(p, errNoContentArea)
			continue
		}

		raster := flatten(img)
		if tpl.FitToPage && !tpl.MaintainAspectRatio {
			raster = stretchTo(raster, place)
		}
		imgPath := filepath.Join(dir, fmt.Sprintf("page_%03d.jpg", i+1))
		if err := writeJPEG(imgPath, raster, tpl.Quality); err != nil {
			return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
		}

		imp := pdfcpu.DefaultImportConfig()
		imp.PageDim = &types.Dim{Width: page.W, Height: page.H}
		imp.UserDim = true
		imp.Pos = types.BottomLeft
		imp.Dx, imp.Dy = place.X, place.Y
		imp.ScaleAbs = true
		imp.Scale = place.W / float64(raster.Bounds().Dx())

		err = importPlaced([]string{imgPath}, partial, imp, conf)
		_ = os.Remove(imgPath)
		if err != nil {
			_ = os.Remove(partial)
			return res, exportModel.NewGroupError(exportModel.KindEngineFailure, job.GroupID,
				fmt.Errorf("import page %s: %w", p.Id, err))
		}
		res.PagesWritten++
	}

	if res.PagesWritten == 0 {
		return res, noPagesError(job, res)
	}
	if err := commit(partial, job.OutputPath); err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	res.OutputPaths = []string{job.OutputPath}
	return res, nil
}

// renderBasic writes every decodable page as a full-page image. It fails only
// when no page could be decoded or the document could not be written.
func (r *PDFRenderer) renderBasic(job Job, log *logger_i.Logger) (Result, error) {
	var res Result
	dir, cleanup, err := scratchDir(job)
	if err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	defer cleanup()

	var files []string
	for i, p := range job.Pages {
		img, err := r.loader.load(p)
		if err != nil {
			log.Warn("skipping page", "pageId", p.Id, "error", err)
			res.skip(p, err)
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("page_%03d.jpg", i+1))
		if err := writeJPEG(path, flatten(img), r.template.Quality); err != nil {
			log.Warn("skipping page", "pageId", p.Id, "error", err)
			res.skip(p, err)
			continue
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return res, noPagesError(job, res)
	}

	partial := partialPath(job.OutputPath)
	if err := removeStale(partial); err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	if err := api.ImportImagesFile(files, partial, imp, pdfConfig()); err != nil {
		_ = os.Remove(partial)
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID,
			fmt.Errorf("assemble pdf: %w", err))
	}
	if err := commit(partial, job.OutputPath); err != nil {
		return res, exportModel.NewGroupError(exportModel.KindGroupFailure, job.GroupID, err)
	}
	res.PagesWritten = len(files)
	res.OutputPaths = []string{job.OutputPath}
	return res, nil
}

// stretchTo resamples img so its aspect ratio matches the placement box.
func stretchTo(img *image.NRGBA, place Placement) *image.NRGBA {
	w := img.Bounds().Dx()
	h := max(int(math.Round(float64(w)*place.H/place.W)), 1)
	if h == img.Bounds().Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(clampQuality(quality))); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func clampQuality(q int) int {
	return min(max(q, 1), 100)
}

// scratchDir makes a private directory for intermediate page files.
func scratchDir(job Job) (string, func(), error) {
	dir, err := os.MkdirTemp(job.ScratchDir, "render-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("create scratch dir: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
