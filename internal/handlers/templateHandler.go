package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/scanflow/internal/adapter/utils"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/export"
	"github.com/akolanti/scanflow/internal/templates"
)

// GetTemplatesHandler godoc
// @Summary      List export templates
// @Tags         Templates
// @Produce      json
// @Param        format  query     string  false  "Only templates of this format (pdf, tiff, png, jpeg)"
// @Success      200     {array}   exportModel.ExportTemplate
// @Failure      500     {object}  api.ErrorResponse
// @Router       /templates [get]
func GetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var (
		list []exportModel.ExportTemplate
		err  error
	)
	if format := r.URL.Query().Get("format"); format != "" {
		list, err = workspaceInstance.Templates.ByFormat(exportModel.ExportFormat(format))
	} else {
		list, err = workspaceInstance.Templates.List()
	}
	if err != nil {
		logRH.FromContext(r.Context()).Error("Could not list templates", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage Error")
		return
	}
	if list == nil {
		list = []exportModel.ExportTemplate{}
	}
	writeJsonResponse(w, http.StatusOK, list)
}

// PutTemplateHandler godoc
// @Summary      Create or replace a template
// @Description  Templates are keyed by name. Invalid templates are rejected with every problem listed.
// @Tags         Templates
// @Accept       json
// @Produce      json
// @Param        request  body      exportModel.ExportTemplate  true  "Template"
// @Success      200      {object}  exportModel.ExportTemplate
// @Failure      400      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Router       /templates [put]
func PutTemplateHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var t exportModel.ExportTemplate
	if !decodeBody(w, r, &t) {
		return
	}
	if errs := templates.Validate(t, workspaceInstance.Environment); len(errs) > 0 {
		WriteErrorResponse(w, http.StatusUnprocessableEntity, t.Name, "Invalid template", errs...)
		return
	}
	if err := workspaceInstance.Templates.Save(t); err != nil {
		logRH.FromContext(r.Context()).Error("Could not save template", "template", t.Name, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, t.Name, "Storage Error")
		return
	}
	writeJsonResponse(w, http.StatusOK, t)
}

// DeleteTemplateHandler godoc
// @Summary      Delete a template
// @Tags         Templates
// @Param        name  path  string  true  "Template name"
// @Success      204
// @Failure      404   {object}  api.ErrorResponse
// @Router       /templates/{name} [delete]
func DeleteTemplateHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	name := utils.GetChiURLParam(r, "name")
	if err := workspaceInstance.Templates.Delete(name); errors.Is(err, templates.ErrTemplateNotFound) {
		WriteErrorResponse(w, http.StatusNotFound, name, "Template not found")
		return
	} else if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, name, "Storage Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCapabilitiesHandler godoc
// @Summary      Formats, compression levels and the recommended template for the current documents
// @Tags         Templates
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /templates/capabilities [get]
func GetCapabilitiesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	groups := workspaceInstance.Assignments.GenerateDocumentGroups(workspaceInstance.Schema())
	var pageCount int
	for _, g := range groups {
		pageCount += g.PageCount
	}
	writeJsonResponse(w, http.StatusOK, map[string]any{
		"formats":         templates.FormatCapabilities(),
		"compression":     templates.CompressionLevels(),
		"advanced_engine": workspaceInstance.Environment.AdvancedEngineAvailable,
		"recommended":     workspaceInstance.Templates.Recommend(pageCount, export.EstimateSize(groups).MBytes()),
	})
}
