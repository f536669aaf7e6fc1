// Package templates validates export templates and keeps a directory of
// named templates as JSON files.
package templates

import (
	"strings"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
)

const (
	MinQuality = 10
	MaxQuality = 100
)

// Environment describes what the running process can render.
type Environment struct {
	AdvancedEngineAvailable bool
}

// Validate returns every problem with t. An empty result means the template
// can be used for a run.
func Validate(t exportModel.ExportTemplate, env Environment) []string {
	var errs []string
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, "Template name is required")
	}
	if !t.Format.Valid() {
		errs = append(errs, "Unsupported export format: "+string(t.Format))
	}
	if t.Quality < MinQuality || t.Quality > MaxQuality {
		errs = append(errs, "Quality must be between 10 and 100")
	}
	for _, m := range t.Margins {
		if m < 0 {
			errs = append(errs, "Margins cannot be negative")
			break
		}
	}
	if t.Format == exportModel.FormatPDF && t.PDFEngine == exportModel.EngineAdvanced && !env.AdvancedEngineAvailable {
		errs = append(errs, "Advanced PDF engine is not available but required for advanced PDF features")
	}
	return errs
}
