package exportModel

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/akolanti/scanflow/internal/domain/commonModels"
)

type ExportFormat string
type PDFEngine string
type Compression string
type PageSize string
type RunStatus string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatTIFF ExportFormat = "tiff"
	FormatPNG  ExportFormat = "png"
	FormatJPEG ExportFormat = "jpeg"

	EngineBasic    PDFEngine = "basic"
	EngineAdvanced PDFEngine = "advanced"

	CompressionNone   Compression = "none"
	CompressionLow    Compression = "low"
	CompressionMedium Compression = "medium"
	CompressionHigh   Compression = "high"

	PageSizeAuto   PageSize = "auto"
	PageSizeA4     PageSize = "a4"
	PageSizeLetter PageSize = "letter"

	RunNotStarted RunStatus = "NOT_STARTED"
	RunRunning    RunStatus = "RUNNING"
	RunCompleted  RunStatus = "COMPLETED"
	RunAborted    RunStatus = "ABORTED"
	RunFailed     RunStatus = "FAILED"
)

// Extension is the file extension written for the format, dot included.
func (f ExportFormat) Extension() string {
	return "." + string(f)
}

func (f ExportFormat) Valid() bool {
	switch f {
	case FormatPDF, FormatTIFF, FormatPNG, FormatJPEG:
		return true
	}
	return false
}

// Margins are top, right, bottom, left in inches.
type Margins [4]float64

func (m Margins) Top() float64    { return m[0] }
func (m Margins) Right() float64  { return m[1] }
func (m Margins) Bottom() float64 { return m[2] }
func (m Margins) Left() float64   { return m[3] }

// ExportTemplate is the per-run export configuration. A run works on its own
// copy; the copy is never mutated after the run starts.
type ExportTemplate struct {
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Format              ExportFormat `json:"format"`
	PDFEngine           PDFEngine    `json:"pdf_engine"`
	Quality             int          `json:"quality"`
	Compression         Compression  `json:"compression"`
	CreateFolders       bool         `json:"create_folders"`
	OverwriteExisting   bool         `json:"overwrite_existing"`
	AddTimestamp        bool         `json:"add_timestamp"`
	PageSize            PageSize     `json:"page_size"`
	Margins             Margins      `json:"margins"`
	FitToPage           bool         `json:"fit_to_page"`
	MaintainAspectRatio bool         `json:"maintain_aspect_ratio"`
}

func DefaultTemplate() ExportTemplate {
	return ExportTemplate{
		Name:                "Default",
		Description:         "Basic PDF export",
		Format:              FormatPDF,
		PDFEngine:           EngineBasic,
		Quality:             95,
		Compression:         CompressionMedium,
		CreateFolders:       true,
		PageSize:            PageSizeAuto,
		Margins:             Margins{0.5, 0.5, 0.5, 0.5},
		FitToPage:           true,
		MaintainAspectRatio: true,
	}
}

// UnmarshalJSON fills absent keys with the defaults so older template files keep loading.
func (t *ExportTemplate) UnmarshalJSON(data []byte) error {
	type plain ExportTemplate
	decoded := plain(DefaultTemplate())
	decoded.Name = ""
	decoded.Description = ""
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if !decoded.Format.Valid() {
		return fmt.Errorf("unknown export format %q", decoded.Format)
	}
	*t = ExportTemplate(decoded)
	return nil
}

// DocumentGroup is the export-ready projection of one non-empty assignment.
type DocumentGroup struct {
	AssignmentID string            `json:"assignment_id"`
	PageIDs      []string          `json:"page_ids"`
	Values       map[string]string `json:"index_values"`
	FolderPath   string            `json:"folder_path"`
	Filename     string            `json:"filename"`
	PageCount    int               `json:"page_count"`
}

// FailedGroup is persisted as a two element array: [group id, message].
type FailedGroup struct {
	GroupID string
	Message string
}

func (f FailedGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{f.GroupID, f.Message})
}

func (f *FailedGroup) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("failed group entry must have 2 elements, got %d", len(pair))
	}
	f.GroupID, f.Message = pair[0], pair[1]
	return nil
}

// ExportState is the durable progress record of one export run.
type ExportState struct {
	ExportID            string         `json:"export_id"`
	OutputDirectory     string         `json:"output_directory"`
	Template            ExportTemplate `json:"template"`
	TotalGroups         int            `json:"total_groups"`
	CompletedGroups     []string       `json:"completed_groups"`
	FailedGroups        []FailedGroup  `json:"failed_groups"`
	StartedTimestamp    time.Time      `json:"started_timestamp"`
	LastUpdateTimestamp time.Time      `json:"last_update_timestamp"`
	Status              RunStatus      `json:"status,omitempty"`
	Pending             *PendingGroup  `json:"pending_group,omitempty"`
}

// PendingGroup is the group being written when the state was saved, with the
// path it was given. A resumed run writes that group to the same path.
type PendingGroup struct {
	GroupID    string `json:"group_id"`
	OutputPath string `json:"output_path"`
}

func (s *ExportState) IsCompleted(groupID string) bool {
	return slices.Contains(s.CompletedGroups, groupID)
}

func (s *ExportState) IsFailed(groupID string) bool {
	for _, f := range s.FailedGroups {
		if f.GroupID == groupID {
			return true
		}
	}
	return false
}

func (s ExportState) Clone() ExportState {
	s.CompletedGroups = slices.Clone(s.CompletedGroups)
	s.FailedGroups = slices.Clone(s.FailedGroups)
	if s.Pending != nil {
		pending := *s.Pending
		s.Pending = &pending
	}
	return s
}

type StateStore interface {
	Save(ctx context.Context, state ExportState) error
	Load(ctx context.Context, exportID string) (ExportState, bool, error)
	Delete(ctx context.Context, exportID string) error
	List(ctx context.Context) ([]ExportState, error)
}

type PageSource interface {
	GetPage(id string) (commonModels.Page, error)
}
