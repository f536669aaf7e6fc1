package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/render"
	"github.com/google/uuid"
)

const timestampLayout = "20060102_150405"

// NewExportID returns export_<date>_<time>_<8 hex chars>.
func NewExportID(now time.Time) string {
	return fmt.Sprintf("export_%s_%s", now.Format(timestampLayout), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// documentDir is where a group is written: the group folder under the root
// when folders are enabled, the root otherwise.
func documentDir(root string, group exportModel.DocumentGroup, tpl exportModel.ExportTemplate) string {
	if tpl.CreateFolders && group.FolderPath != "" {
		return filepath.Join(root, group.FolderPath)
	}
	return root
}

// outputFilename swaps the preview extension for the format extension and
// adds a timestamp when configured.
func outputFilename(preview string, tpl exportModel.ExportTemplate, now time.Time) string {
	name := strings.TrimSuffix(preview, filepath.Ext(preview))
	if tpl.AddTimestamp {
		name += "_" + now.Format(timestampLayout)
	}
	return name + tpl.Format.Extension()
}

// maxCollisionSuffix is the last _NNN sibling tried before the group fails.
const maxCollisionSuffix = 999

var ErrNoFreeName = errors.New("no free output name")

// resolveCollision returns path, or the first free <base>_NNN<ext> sibling
// when path is taken and overwriting is disabled. Stat errors other than
// not-exist fail the lookup.
func resolveCollision(path string, overwrite bool) (string, error) {
	if overwrite {
		return path, nil
	}
	used, err := taken(path)
	if err != nil || !used {
		return path, err
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; n <= maxCollisionSuffix; n++ {
		candidate := fmt.Sprintf("%s_%03d%s", base, n, ext)
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s_001..%03d%s all exist", ErrNoFreeName, base, maxCollisionSuffix, ext)
}

// taken also counts the first per-page file of raster outputs.
func taken(path string) (bool, error) {
	if ok, err := exists(path); ok || err != nil {
		return ok, err
	}
	return exists(render.PagePath(path, 1))
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("check output path: %w", err)
	}
}
