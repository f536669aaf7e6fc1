package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/akolanti/scanflow/internal/adapter"
	"github.com/akolanti/scanflow/internal/config"
)

const maxBodyBytes = 1 << 20

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, message string, details ...string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, message, httpCode, details...))
}

func validateContext(ctx context.Context) bool {
	if workspaceInstance == nil {
		return false
	}
	if ctx.Err() != nil {
		logRH.FromContext(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func traceID(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

// decodeBody reads a JSON body into dst and answers 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		logRH.FromContext(r.Context()).Warn("Bad request body", "path", r.URL.Path, "error", err)
		var message string
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) {
			message = "Request body must be valid JSON"
		} else {
			message = fmt.Sprintf("Bad Request: %v", err)
		}
		WriteErrorResponse(w, http.StatusBadRequest, "", message)
		return false
	}
	return true
}
