package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/scanflow/internal/api"
	"github.com/akolanti/scanflow/internal/schema"
)

// GetSchemaHandler godoc
// @Summary      Get the index schema
// @Tags         Schema
// @Produce      json
// @Success      200  {object}  schema.Schema
// @Router       /schema [get]
func GetSchemaHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		writeJsonResponse(w, http.StatusOK, workspaceInstance.Schema())
	}
}

// PutSchemaHandler godoc
// @Summary      Replace the index schema
// @Description  Replaces every field. Field names must be unique. Assignment previews are regenerated.
// @Tags         Schema
// @Accept       json
// @Produce      json
// @Param        request  body      api.SchemaRequest  true  "Separator and fields"
// @Success      200      {object}  schema.Schema
// @Failure      400      {object}  api.ErrorResponse
// @Router       /schema [put]
func PutSchemaHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.SchemaRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sc := schema.New(req.Separator)
	for _, f := range req.Fields {
		if f.Name == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Field name is required")
			return
		}
		if err := sc.AddField(f); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, schema.ErrDuplicateField) {
				status = http.StatusBadRequest
			}
			WriteErrorResponse(w, status, "", err.Error())
			return
		}
	}
	workspaceInstance.SetSchema(sc)
	_ = workspaceInstance.Assignments.GenerateDocumentGroups(sc)
	logRH.FromContext(r.Context()).Info("Schema replaced", "fields", len(sc.Fields), "separator", sc.Separator)
	writeJsonResponse(w, http.StatusOK, sc)
}
