// @title           Scanflow Export API
// @version         1.0
// @description     Index scanned pages into documents and export them as PDF, TIFF, PNG or JPEG with resumable runs.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

//go:generate swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ../../ --output ./docs

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/scanflow/internal/assignment"
	"github.com/akolanti/scanflow/internal/config"
	"github.com/akolanti/scanflow/internal/data/store"
	"github.com/akolanti/scanflow/internal/handlers"
	"github.com/akolanti/scanflow/internal/imagecache"
	"github.com/akolanti/scanflow/internal/pages"
	"github.com/akolanti/scanflow/internal/render"
	"github.com/akolanti/scanflow/internal/server"
	"github.com/akolanti/scanflow/internal/templates"
	"github.com/akolanti/scanflow/internal/worker"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

var (
	listenAddr      string
	stateBackend    string
	workerWaitGroup sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ListenAddr(), "server listen address")
	flag.StringVar(&stateBackend, "state-backend", config.StateBackend(), "export state backend: file, redis or memory")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	states := store.NewStateStore(ctx, stateBackend)

	templateManager, err := templates.NewManager(afero.NewOsFs(), config.TemplateDirectory())
	if err != nil {
		logger.Error("Template directory unusable", "dir", config.TemplateDirectory(), "error", err)
		os.Exit(1)
	}
	if err := templateManager.EnsureDefaults(); err != nil {
		logger.Warn("Could not install default templates", "error", err)
	}

	cache := imagecache.New(config.CacheBudget())
	logger.Info("Image cache ready", "budget", cache.String())

	batch := pages.NewBatch(pages.DefaultCapabilities())
	assignments := assignment.NewStore(assignment.WithOnChange(func(c assignment.Change) {
		for owner, pageIDs := range c.Evicted {
			logger.Info("Pages moved between assignments", "from", owner, "to", c.AssignmentID, "pages", pageIDs)
		}
	}))

	exportWorker := worker.New(worker.Config{
		Pages:       batch,
		States:      states,
		Cache:       cache,
		ScratchDir:  os.TempDir(),
		BufferLimit: config.BufferLimit,
		CancelWait:  config.CancelWaitTimeout,
	})
	exportWorker.Start(&workerWaitGroup)

	handlers.InitWorkspace(&handlers.Workspace{
		Batch:       batch,
		Assignments: assignments,
		Templates:   templateManager,
		Worker:      exportWorker,
		States:      states,
		Environment: templates.Environment{AdvancedEngineAvailable: render.AdvancedEngineAvailable()},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.CreateServer(gctx, listenAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		//stop the worker; a running export is cancelled at the next document and stays resumable
		exportWorker.Stop()
		workerWaitGroup.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
