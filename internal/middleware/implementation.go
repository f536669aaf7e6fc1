package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/scanflow/internal/adapter/utils"
	"github.com/akolanti/scanflow/internal/handlers"
	"github.com/akolanti/scanflow/internal/metrics"
	"github.com/akolanti/scanflow/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetSchemaHandler = Wrap(handlers.GetSchemaHandler)
var PutSchemaHandler = Wrap(handlers.PutSchemaHandler)

var PostPagesHandler = Wrap(handlers.PostPagesHandler)
var GetPagesHandler = Wrap(handlers.GetPagesHandler)

var PostAssignmentHandler = Wrap(handlers.PostAssignmentHandler)
var PostAutoAssignHandler = Wrap(handlers.PostAutoAssignHandler)
var GetAssignmentsHandler = Wrap(handlers.GetAssignmentsHandler)
var PutAssignmentHandler = Wrap(handlers.PutAssignmentHandler)
var DeleteAssignmentHandler = Wrap(handlers.DeleteAssignmentHandler)
var PostAssignmentPagesHandler = Wrap(handlers.PostAssignmentPagesHandler)
var DeleteAssignmentPagesHandler = Wrap(handlers.DeleteAssignmentPagesHandler)
var GetUnassignedHandler = Wrap(handlers.GetUnassignedHandler)
var GetValidationHandler = Wrap(handlers.GetValidationHandler)
var GetGroupsHandler = Wrap(handlers.GetGroupsHandler)

var GetTemplatesHandler = Wrap(handlers.GetTemplatesHandler)
var PutTemplateHandler = Wrap(handlers.PutTemplateHandler)
var DeleteTemplateHandler = Wrap(handlers.DeleteTemplateHandler)
var GetCapabilitiesHandler = Wrap(handlers.GetCapabilitiesHandler)

var PostExportHandler = Wrap(handlers.PostExportHandler)
var GetExportHandler = Wrap(handlers.GetExportHandler)
var PostCancelExportHandler = Wrap(handlers.PostCancelExportHandler)
var GetResumableExportsHandler = Wrap(handlers.GetResumableExportsHandler)
var PostResumeExportHandler = Wrap(handlers.PostResumeExportHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(r), strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(utils.RoutePattern(re.req), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	return rateLimiter(re)
}
