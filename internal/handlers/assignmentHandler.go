package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/scanflow/internal/adapter/utils"
	"github.com/akolanti/scanflow/internal/api"
	"github.com/akolanti/scanflow/internal/assignment"
	"github.com/akolanti/scanflow/internal/pages"
)

// unknownPages answers 400 when any id is not in the batch.
func unknownPages(w http.ResponseWriter, ids []string) bool {
	for _, id := range ids {
		if _, err := workspaceInstance.Batch.GetPage(id); errors.Is(err, pages.ErrPageNotFound) {
			WriteErrorResponse(w, http.StatusBadRequest, id, "Page not found")
			return true
		}
	}
	return false
}

func writeAssignment(w http.ResponseWriter, status int, id string) {
	_ = workspaceInstance.Assignments.GenerateDocumentGroups(workspaceInstance.Schema())
	a, err := workspaceInstance.Assignments.Assignment(id)
	if err != nil {
		// the last page was removed and the assignment went with it
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJsonResponse(w, status, a)
}

// PostAssignmentHandler godoc
// @Summary      Assign pages to a new document
// @Description  Pages owned by another assignment move to the new one.
// @Tags         Assignments
// @Accept       json
// @Produce      json
// @Param        request  body      api.AssignmentRequest  true  "Pages and index values"
// @Success      201      {object}  assignment.PageAssignment
// @Failure      400      {object}  api.ErrorResponse
// @Router       /assignments [post]
func PostAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AssignmentRequest
	if !decodeBody(w, r, &req) || unknownPages(w, req.PageIDs) {
		return
	}
	a, err := workspaceInstance.Assignments.CreateAssignment(req.PageIDs, req.Values)
	if errors.Is(err, assignment.ErrNoPages) {
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
		return
	} else if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Assignment Error")
		return
	}
	writeAssignment(w, http.StatusCreated, a.ID)
}

// PostAutoAssignHandler godoc
// @Summary      Split the unassigned pages into fixed-size documents
// @Tags         Assignments
// @Accept       json
// @Produce      json
// @Param        request  body      api.AutoAssignRequest  true  "Pages per document and base values"
// @Success      200      {object}  api.AssignmentsResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /assignments/auto [post]
func PostAutoAssignHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AutoAssignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ws := workspaceInstance
	sc := ws.Schema()
	unassigned := ws.Assignments.GetUnassignedPages(ws.Batch.IDs())
	if err := ws.Assignments.AutoAssignSequential(unassigned, req.PagesPerDocument, req.Values, sc); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
		return
	}
	GetAssignmentsHandler(w, r)
}

// GetAssignmentsHandler godoc
// @Summary      List assignments with a summary
// @Tags         Assignments
// @Produce      json
// @Success      200  {object}  api.AssignmentsResponse
// @Router       /assignments [get]
func GetAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ws := workspaceInstance
	_ = ws.Assignments.GenerateDocumentGroups(ws.Schema())
	writeJsonResponse(w, http.StatusOK, api.AssignmentsResponse{
		Assignments: ws.Assignments.All(),
		Summary:     ws.Assignments.Summary(),
	})
}

// PutAssignmentHandler godoc
// @Summary      Replace the index values of an assignment
// @Tags         Assignments
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Assignment ID"
// @Param        request  body      api.AssignmentValuesRequest  true  "Index values"
// @Success      200      {object}  assignment.PageAssignment
// @Failure      404      {object}  api.ErrorResponse
// @Router       /assignments/{id} [put]
func PutAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.AssignmentValuesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !workspaceInstance.Assignments.UpdateAssignment(id, req.Values) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Assignment not found")
		return
	}
	writeAssignment(w, http.StatusOK, id)
}

// DeleteAssignmentHandler godoc
// @Summary      Remove an assignment
// @Description  Its pages become unassigned.
// @Tags         Assignments
// @Param        id   path  string  true  "Assignment ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Router       /assignments/{id} [delete]
func DeleteAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if !workspaceInstance.Assignments.RemoveAssignment(id) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Assignment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostAssignmentPagesHandler godoc
// @Summary      Add pages to an assignment
// @Tags         Assignments
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Assignment ID"
// @Param        request  body      api.AssignmentPagesRequest  true  "Page IDs"
// @Success      200      {object}  assignment.PageAssignment
// @Failure      404      {object}  api.ErrorResponse
// @Router       /assignments/{id}/pages [post]
func PostAssignmentPagesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.AssignmentPagesRequest
	if !decodeBody(w, r, &req) || unknownPages(w, req.PageIDs) {
		return
	}
	if !workspaceInstance.Assignments.AddPagesToAssignment(id, req.PageIDs) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Assignment not found")
		return
	}
	writeAssignment(w, http.StatusOK, id)
}

// DeleteAssignmentPagesHandler godoc
// @Summary      Remove pages from an assignment
// @Description  An assignment left without pages is deleted and 204 is returned.
// @Tags         Assignments
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Assignment ID"
// @Param        request  body      api.AssignmentPagesRequest  true  "Page IDs"
// @Success      200      {object}  assignment.PageAssignment
// @Success      204
// @Failure      404      {object}  api.ErrorResponse
// @Router       /assignments/{id}/pages [delete]
func DeleteAssignmentPagesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.AssignmentPagesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !workspaceInstance.Assignments.RemovePagesFromAssignment(id, req.PageIDs) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Assignment not found")
		return
	}
	writeAssignment(w, http.StatusOK, id)
}

// GetUnassignedHandler godoc
// @Summary      Page ids not owned by any assignment, in batch order
// @Tags         Assignments
// @Produce      json
// @Success      200  {array}  string
// @Router       /assignments/unassigned [get]
func GetUnassignedHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ids := workspaceInstance.Assignments.GetUnassignedPages(workspaceInstance.Batch.IDs())
	if ids == nil {
		ids = []string{}
	}
	writeJsonResponse(w, http.StatusOK, ids)
}

// GetValidationHandler godoc
// @Summary      Validate every assignment against the schema
// @Tags         Assignments
// @Produce      json
// @Success      200  {object}  api.ValidationResponse
// @Router       /assignments/validation [get]
func GetValidationHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	errs := workspaceInstance.Assignments.ValidateAssignments(workspaceInstance.Schema())
	if errs == nil {
		errs = []assignment.ValidationError{}
	}
	writeJsonResponse(w, http.StatusOK, api.ValidationResponse{Valid: len(errs) == 0, Errors: errs})
}

// GetGroupsHandler godoc
// @Summary      Preview the documents an export would write
// @Tags         Assignments
// @Produce      json
// @Success      200  {array}  exportModel.DocumentGroup
// @Router       /groups [get]
func GetGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		writeJsonResponse(w, http.StatusOK, workspaceInstance.Assignments.GenerateDocumentGroups(workspaceInstance.Schema()))
	}
}
