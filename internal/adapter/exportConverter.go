package adapter

import (
	"fmt"

	"github.com/akolanti/scanflow/internal/api"
	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/export"
)

func ToInitExportResponse(id string, groups []exportModel.DocumentGroup) api.InitExportResponse {
	structure := export.PreviewStructure(groups)
	return api.InitExportResponse{
		Id:         id,
		StatusURL:  fmt.Sprintf("exports/%s", id),
		Structure:  &structure,
		EstimateMB: export.EstimateSize(groups).MBytes(),
	}
}

func ToPageResponse(page commonModels.Page) api.PageResponse {
	return api.PageResponse{
		Id:         page.Id,
		Number:     page.Number,
		ImagePath:  page.ImagePath,
		Resolution: page.Resolution,
		Rotation:   page.Rotation,
		ScannedAt:  page.ScannedAt,
	}
}

func ToPageResponses(pages []commonModels.Page) []api.PageResponse {
	out := make([]api.PageResponse, 0, len(pages))
	for _, p := range pages {
		out = append(out, ToPageResponse(p))
	}
	return out
}

func ToPage(req api.PageRequest) commonModels.Page {
	return commonModels.Page{
		ImagePath:  req.ImagePath,
		Resolution: req.Resolution,
		Rotation:   ((req.Rotation % 360) + 360) % 360,
	}
}

func ToResumableExport(state exportModel.ExportState) api.ResumableExport {
	return api.ResumableExport{
		Id:              state.ExportID,
		OutputDirectory: state.OutputDirectory,
		TemplateName:    state.Template.Name,
		TotalGroups:     state.TotalGroups,
		Completed:       len(state.CompletedGroups),
		Failed:          len(state.FailedGroups),
		Status:          state.Status,
		StartedAt:       state.StartedTimestamp,
		LastUpdate:      state.LastUpdateTimestamp,
	}
}

func ToResumableExports(states []exportModel.ExportState) []api.ResumableExport {
	out := make([]api.ResumableExport, 0, len(states))
	for _, s := range states {
		out = append(out, ToResumableExport(s))
	}
	return out
}

func BadRequest(id string, message string, code int, details ...string) api.ErrorResponse {
	return api.ErrorResponse{
		Id: id,
		Error: api.OutgoingError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
