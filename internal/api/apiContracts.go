package api

import (
	"time"

	"github.com/akolanti/scanflow/internal/assignment"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/export"
	"github.com/akolanti/scanflow/internal/schema"
)

type ErrorResponse struct {
	Id    string        `json:"id,omitempty" example:"export_20240305_143015_1a2b3c4d"`
	Error OutgoingError `json:"error"`
}

type OutgoingError struct {
	Code    int      `json:"code" example:"400"`
	Message string   `json:"message" example:"Bad Request"`
	Details []string `json:"details,omitempty"`
}

// requests---------------------

type SchemaRequest struct {
	Separator string              `json:"separator" example:"_"`
	Fields    []schema.IndexField `json:"fields" validate:"required"`
}

type PageRequest struct {
	ImagePath  string `json:"image_path" validate:"required" example:"/scans/0001.png"`
	Resolution int    `json:"resolution,omitempty" example:"300"`
	Rotation   int    `json:"rotation,omitempty" example:"90"`
}

type AddPagesRequest struct {
	Pages []PageRequest `json:"pages" validate:"required"`
}

type AssignmentRequest struct {
	PageIDs []string          `json:"page_ids" validate:"required"`
	Values  map[string]string `json:"index_values"`
}

type AssignmentValuesRequest struct {
	Values map[string]string `json:"index_values" validate:"required"`
}

type AssignmentPagesRequest struct {
	PageIDs []string `json:"page_ids" validate:"required"`
}

type ExportRequest struct {
	TemplateName string                      `json:"template_name,omitempty" example:"A4 PDF"`
	Template     *exportModel.ExportTemplate `json:"template,omitempty"`
	OutputDir    string                      `json:"output_directory" validate:"required" example:"/exports"`
}

// responses---------------------

type PageResponse struct {
	Id         string    `json:"id"`
	Number     int       `json:"page_number"`
	ImagePath  string    `json:"image_path"`
	Resolution int       `json:"resolution"`
	Rotation   int       `json:"rotation"`
	ScannedAt  time.Time `json:"scanned_at"`
}

type InitExportResponse struct {
	Id         string                   `json:"id"`
	StatusURL  string                   `json:"status_url"`
	Structure  *export.StructurePreview `json:"structure,omitempty"`
	EstimateMB float64                  `json:"estimated_size_mb"`
}

type ResumableExport struct {
	Id              string                `json:"export_id"`
	OutputDirectory string                `json:"output_directory"`
	TemplateName    string                `json:"template_name"`
	TotalGroups     int                   `json:"total_groups"`
	Completed       int                   `json:"completed_groups"`
	Failed          int                   `json:"failed_groups"`
	Status          exportModel.RunStatus `json:"status,omitempty"`
	StartedAt       time.Time             `json:"started_timestamp"`
	LastUpdate      time.Time             `json:"last_update_timestamp"`
}

type ResumeRequest struct {
	// Groups are regenerated from the current assignments when empty.
	Groups []exportModel.DocumentGroup `json:"groups,omitempty"`
}

type AutoAssignRequest struct {
	PagesPerDocument int               `json:"pages_per_document" validate:"required" example:"2"`
	Values           map[string]string `json:"index_values"`
}

type AssignmentsResponse struct {
	Assignments []assignment.PageAssignment `json:"assignments"`
	Summary     assignment.Summary          `json:"summary"`
}

type ValidationResponse struct {
	Valid  bool                         `json:"valid"`
	Errors []assignment.ValidationError `json:"errors"`
}
