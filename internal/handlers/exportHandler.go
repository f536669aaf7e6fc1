package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/scanflow/internal/adapter"
	"github.com/akolanti/scanflow/internal/adapter/utils"
	"github.com/akolanti/scanflow/internal/api"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/export"
	"github.com/akolanti/scanflow/internal/templates"
	"github.com/akolanti/scanflow/internal/worker"
)

// resolveTemplate picks the inline template, then the named one, then the default.
func resolveTemplate(req api.ExportRequest) (exportModel.ExportTemplate, error) {
	switch {
	case req.Template != nil:
		return *req.Template, nil
	case req.TemplateName != "":
		return workspaceInstance.Templates.Load(req.TemplateName)
	default:
		return exportModel.DefaultTemplate(), nil
	}
}

func writeSubmitError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		WriteErrorResponse(w, http.StatusServiceUnavailable, id, err.Error())
	case errors.Is(err, exportModel.ErrRunInProgress):
		WriteErrorResponse(w, http.StatusConflict, id, err.Error())
	default:
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Export Error")
	}
}

// PostExportHandler godoc
// @Summary      Start an export run
// @Description  Snapshots the current document groups and queues a run. Nothing is written when the batch is not ready.
// @Tags         Exports
// @Accept       json
// @Produce      json
// @Param        request  body      api.ExportRequest       true  "Template and output directory"
// @Success      202      {object}  api.InitExportResponse  "Run queued"
// @Failure      400      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse       "Readiness problems in error.details"
// @Failure      503      {object}  api.ErrorResponse       "Queue full"
// @Router       /exports [post]
func PostExportHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.ExportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OutputDir == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "output_directory is required")
		return
	}
	tpl, err := resolveTemplate(req)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		WriteErrorResponse(w, http.StatusBadRequest, req.TemplateName, "Template not found")
		return
	} else if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, req.TemplateName, "Storage Error")
		return
	}

	ws := workspaceInstance
	sc := ws.Schema()
	groups := ws.Assignments.GenerateDocumentGroups(sc)
	problems := export.CheckReadiness(export.Readiness{
		Groups:           groups,
		Pages:            ws.Batch,
		ValidationErrors: ws.Assignments.ValidateAssignments(sc),
		Template:         tpl,
		Environment:      ws.Environment,
	})
	if len(problems) > 0 {
		logRH.FromContext(r.Context()).Warn("Export not ready", "problems", len(problems))
		WriteErrorResponse(w, http.StatusUnprocessableEntity, "", "Export is not ready", problems...)
		return
	}

	id, err := ws.Worker.Submit(worker.Request{
		Groups:    groups,
		Template:  tpl,
		OutputDir: req.OutputDir,
		TraceID:   traceID(r.Context()),
	})
	if err != nil {
		writeSubmitError(w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitExportResponse(id, groups))
}

// GetExportHandler godoc
// @Summary      Get export status
// @Description  Live status for runs of this process; otherwise the persisted state of an interrupted run.
// @Tags         Exports
// @Produce      json
// @Param        id   path      string  true  "Export ID"
// @Success      200  {object}  worker.RunStatus
// @Success      200  {object}  api.ResumableExport
// @Failure      404  {object}  api.ErrorResponse
// @Router       /exports/{id} [get]
func GetExportHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if status, ok := workspaceInstance.Worker.Status(id); ok {
		writeJsonResponse(w, http.StatusOK, status)
		return
	}
	state, found, err := workspaceInstance.States.Load(r.Context(), id)
	if err != nil {
		logRH.FromContext(r.Context()).Error("Could not load export state", "exportId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage Error")
		return
	}
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Export not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToResumableExport(state))
}

// PostCancelExportHandler godoc
// @Summary      Cancel an export run
// @Description  The run stops at the next document boundary. 202 means it is still finishing the current document.
// @Tags         Exports
// @Produce      json
// @Param        id   path      string  true  "Export ID"
// @Success      200  {object}  worker.RunStatus
// @Success      202  {object}  worker.RunStatus
// @Failure      404  {object}  api.ErrorResponse
// @Router       /exports/{id}/cancel [post]
func PostCancelExportHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	err := workspaceInstance.Worker.Cancel(id)
	switch {
	case errors.Is(err, worker.ErrRunNotFound):
		WriteErrorResponse(w, http.StatusNotFound, id, "Export not found")
		return
	case errors.Is(err, worker.ErrCancelTimeout):
		status, _ := workspaceInstance.Worker.Status(id)
		writeJsonResponse(w, http.StatusAccepted, status)
		return
	case err != nil:
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Export Error")
		return
	}
	status, _ := workspaceInstance.Worker.Status(id)
	writeJsonResponse(w, http.StatusOK, status)
}

// GetResumableExportsHandler godoc
// @Summary      List interrupted runs that can be resumed
// @Tags         Exports
// @Produce      json
// @Success      200  {array}   api.ResumableExport
// @Failure      500  {object}  api.ErrorResponse
// @Router       /exports/resumable [get]
func GetResumableExportsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	states, err := workspaceInstance.States.List(r.Context())
	if err != nil {
		logRH.FromContext(r.Context()).Error("Could not list export states", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage Error")
		return
	}
	resumable := states[:0]
	for _, s := range states {
		if status, ok := workspaceInstance.Worker.Status(s.ExportID); ok && !status.Finished() {
			continue
		}
		resumable = append(resumable, s)
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToResumableExports(resumable))
}

// PostResumeExportHandler godoc
// @Summary      Resume an interrupted run
// @Description  Completed and failed documents of the previous attempt are skipped. The template and output directory of the interrupted run are reused.
// @Tags         Exports
// @Accept       json
// @Produce      json
// @Param        id       path      string             true   "Export ID"
// @Param        request  body      api.ResumeRequest  false  "Optional group snapshot"
// @Success      202      {object}  api.InitExportResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /exports/{id}/resume [post]
func PostResumeExportHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.ResumeRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	ws := workspaceInstance
	state, found, err := ws.States.Load(r.Context(), id)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage Error")
		return
	}
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Export not found")
		return
	}

	groups := req.Groups
	if len(groups) == 0 {
		groups = ws.Assignments.GenerateDocumentGroups(ws.Schema())
	}
	newID, err := ws.Worker.Submit(worker.Request{
		Groups:  groups,
		Resume:  &state,
		TraceID: traceID(r.Context()),
	})
	if err != nil {
		writeSubmitError(w, id, err)
		return
	}
	logRH.FromContext(r.Context()).Info("Export resumed", "exportId", newID,
		"completed", len(state.CompletedGroups), "failed", len(state.FailedGroups))
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitExportResponse(newID, groups))
}
