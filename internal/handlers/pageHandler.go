package handlers

import (
	"net/http"

	"github.com/akolanti/scanflow/internal/adapter"
	"github.com/akolanti/scanflow/internal/api"
	"github.com/akolanti/scanflow/internal/domain/commonModels"
)

// PostPagesHandler godoc
// @Summary      Register scanned pages
// @Description  Appends image files to the batch in request order. Resolution defaults to the scanner capability.
// @Tags         Pages
// @Accept       json
// @Produce      json
// @Param        request  body      api.AddPagesRequest  true  "Pages to add"
// @Success      201      {array}   api.PageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /pages [post]
func PostPagesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AddPagesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Pages) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "At least one page is required")
		return
	}
	for _, p := range req.Pages {
		if p.ImagePath == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "image_path is required")
			return
		}
		if p.Rotation%90 != 0 {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Rotation must be a multiple of 90")
			return
		}
	}

	added := make([]commonModels.Page, 0, len(req.Pages))
	for _, p := range req.Pages {
		added = append(added, workspaceInstance.Batch.Add(adapter.ToPage(p)))
	}
	logRH.FromContext(r.Context()).Info("Pages added", "count", len(added), "batchSize", workspaceInstance.Batch.Len())
	writeJsonResponse(w, http.StatusCreated, adapter.ToPageResponses(added))
}

// GetPagesHandler godoc
// @Summary      List the batch
// @Tags         Pages
// @Produce      json
// @Success      200  {array}  api.PageResponse
// @Router       /pages [get]
func GetPagesHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		writeJsonResponse(w, http.StatusOK, adapter.ToPageResponses(workspaceInstance.Batch.Pages()))
	}
}
