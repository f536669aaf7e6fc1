package export

import (
	"fmt"
	"os"
	"sort"

	"github.com/akolanti/scanflow/internal/assignment"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/templates"
	"github.com/c2h5oh/datasize"
)

const bytesPerPageEstimate = 500 * datasize.KB

// Readiness collects everything CheckReadiness needs to look at.
type Readiness struct {
	Groups           []exportModel.DocumentGroup
	Pages            exportModel.PageSource
	ValidationErrors []assignment.ValidationError
	Template         exportModel.ExportTemplate
	Environment      templates.Environment
}

// CheckReadiness returns every reason the run should not start. Nothing is
// written to disk.
func CheckReadiness(r Readiness) []string {
	var errs []string
	if len(r.Groups) == 0 {
		errs = append(errs, "No documents to export")
	}
	for _, group := range r.Groups {
		for _, id := range group.PageIDs {
			page, err := r.Pages.GetPage(id)
			if err != nil {
				errs = append(errs, fmt.Sprintf("Page %s of %s not found", id, group.Filename))
				continue
			}
			if _, err := os.Stat(page.ImagePath); err != nil {
				errs = append(errs, fmt.Sprintf("Image file missing for page %d of %s: %s", page.Number, group.Filename, page.ImagePath))
			}
		}
	}
	for _, v := range r.ValidationErrors {
		errs = append(errs, fmt.Sprintf("Assignment %s: %s", v.AssignmentID, v.Message))
	}
	for _, msg := range templates.Validate(r.Template, r.Environment) {
		errs = append(errs, "Template: "+msg)
	}
	return errs
}

type FolderPreview struct {
	Path  string   `json:"path"`
	Files []string `json:"files"`
	Pages int      `json:"pages"`
}

type StructurePreview struct {
	Folders    []FolderPreview `json:"folders"`
	TotalFiles int             `json:"total_files"`
	TotalPages int             `json:"total_pages"`
}

// PreviewStructure groups the documents by folder. Documents without a folder
// land under the empty path, which stands for the output root.
func PreviewStructure(groups []exportModel.DocumentGroup) StructurePreview {
	byFolder := map[string]*FolderPreview{}
	var preview StructurePreview
	for _, g := range groups {
		f, ok := byFolder[g.FolderPath]
		if !ok {
			f = &FolderPreview{Path: g.FolderPath}
			byFolder[g.FolderPath] = f
		}
		f.Files = append(f.Files, g.Filename)
		f.Pages += g.PageCount
		preview.TotalFiles++
		preview.TotalPages += g.PageCount
	}
	for _, f := range byFolder {
		preview.Folders = append(preview.Folders, *f)
	}
	sort.Slice(preview.Folders, func(i, j int) bool { return preview.Folders[i].Path < preview.Folders[j].Path })
	return preview
}

// EstimateSize is a rough output size for the groups.
func EstimateSize(groups []exportModel.DocumentGroup) datasize.ByteSize {
	var pages int
	for _, g := range groups {
		pages += g.PageCount
	}
	return datasize.ByteSize(pages) * bytesPerPageEstimate
}
