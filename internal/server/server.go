package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/scanflow/internal/adapter/utils"
	"github.com/akolanti/scanflow/internal/config"
	"github.com/akolanti/scanflow/internal/middleware"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

// RegisterRoutes mounts every API endpoint on r.
func RegisterRoutes(r chi.Router) {
	r.Get("/schema", middleware.GetSchemaHandler)
	r.Put("/schema", middleware.PutSchemaHandler)

	r.Post("/pages", middleware.PostPagesHandler)
	r.Get("/pages", middleware.GetPagesHandler)

	r.Route("/assignments", func(r chi.Router) {
		r.Post("/", middleware.PostAssignmentHandler)
		r.Get("/", middleware.GetAssignmentsHandler)
		r.Post("/auto", middleware.PostAutoAssignHandler)
		r.Get("/unassigned", middleware.GetUnassignedHandler)
		r.Get("/validation", middleware.GetValidationHandler)
		r.Put("/{id}", middleware.PutAssignmentHandler)
		r.Delete("/{id}", middleware.DeleteAssignmentHandler)
		r.Post("/{id}/pages", middleware.PostAssignmentPagesHandler)
		r.Delete("/{id}/pages", middleware.DeleteAssignmentPagesHandler)
	})
	r.Get("/groups", middleware.GetGroupsHandler)

	r.Get("/templates", middleware.GetTemplatesHandler)
	r.Put("/templates", middleware.PutTemplateHandler)
	r.Get("/templates/capabilities", middleware.GetCapabilitiesHandler)
	r.Delete("/templates/{name}", middleware.DeleteTemplateHandler)

	r.Route("/exports", func(r chi.Router) {
		r.Post("/", middleware.PostExportHandler)
		r.Get("/resumable", middleware.GetResumableExportsHandler)
		r.Get("/{id}", middleware.GetExportHandler)
		r.Post("/{id}/cancel", middleware.PostCancelExportHandler)
		r.Post("/{id}/resume", middleware.PostResumeExportHandler)
	})
}

// CreateServer serves until ctx is cancelled, then shuts down within the
// configured timeout.
func CreateServer(ctx context.Context, listenAddr string) error {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()
	RegisterRoutes(r.Router)
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		_logger.Info("Server is listening at", "address", listenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return ShutDown()
}

func ShutDown() error {
	_logger.Info("Server is shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(ctx); err != nil {
		_logger.Error("Could not shutdown gracefully", "error", err)
		return err
	}
	_logger.Info("Server stopped gracefully")
	return nil
}
