package handlers

import (
	"sync"

	"github.com/akolanti/scanflow/internal/assignment"
	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/pages"
	"github.com/akolanti/scanflow/internal/schema"
	"github.com/akolanti/scanflow/internal/templates"
	"github.com/akolanti/scanflow/internal/worker"
	"github.com/akolanti/scanflow/pkg/logger_i"
)

var (
	workspaceInstance *Workspace //private singleton
	once              sync.Once
	logRH             *logger_i.Logger
)

// Workspace is the state one operator session works on: the scanned batch,
// the index schema, the page assignments and the export machinery.
type Workspace struct {
	Batch       *pages.Batch
	Assignments *assignment.Store
	Templates   *templates.Manager
	Worker      *worker.Worker
	States      exportModel.StateStore
	Environment templates.Environment

	schemaMu sync.RWMutex
	schema   *schema.Schema
}

func InitWorkspace(ws *Workspace) {
	once.Do(func() {
		setWorkspace(ws)
	})
}

func setWorkspace(ws *Workspace) {
	if ws.schema == nil {
		ws.schema = schema.New(schema.DefaultSeparator)
	}
	workspaceInstance = ws
	logRH = logger_i.NewLogger("RequestHandler")
	logRH.Info("Workspace ready")
}

// Schema returns a copy safe to read without the lock.
func (ws *Workspace) Schema() *schema.Schema {
	ws.schemaMu.RLock()
	defer ws.schemaMu.RUnlock()
	cp := *ws.schema
	cp.Fields = append([]schema.IndexField(nil), ws.schema.Fields...)
	return &cp
}

func (ws *Workspace) SetSchema(sc *schema.Schema) {
	ws.schemaMu.Lock()
	ws.schema = sc
	ws.schemaMu.Unlock()
}
