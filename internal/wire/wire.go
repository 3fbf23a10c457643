// Package wire provides dependency injection for the fta application.
// It creates singleton services with lazy initialization.
package wire

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/example/fta/internal/adapters/catalog"
	cliadapter "github.com/example/fta/internal/adapters/cli"
	"github.com/example/fta/internal/adapters/httpapi"
	"github.com/example/fta/internal/adapters/sqlite"
	"github.com/example/fta/internal/app"
	"github.com/example/fta/internal/config"
	"github.com/example/fta/internal/db"
	"github.com/example/fta/internal/logger"
	"github.com/example/fta/internal/ports/primary"
	"github.com/example/fta/internal/ports/secondary"
)

var (
	cfg                  = config.Default()
	log                  *logger.Logger
	classificationStore  *catalog.Catalog
	investigationService primary.InvestigationService
	faultTreeService     primary.FaultTreeService
	once                 sync.Once
	initErr              error
	cfgMu                sync.Mutex
)

// Configure sets the configuration used when services are first built.
// Calls after initialization have no effect.
func Configure(c *config.Config) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
}

// Init builds every service. It is safe to call more than once; only the
// first call does work and later calls return its error.
func Init() error {
	once.Do(initServices)
	return initErr
}

// Config returns the active configuration.
func Config() *config.Config {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	return cfg
}

// Logger returns the singleton logger.
func Logger() *logger.Logger {
	mustInit()
	return log
}

// InvestigationService returns the singleton InvestigationService instance.
func InvestigationService() primary.InvestigationService {
	mustInit()
	return investigationService
}

// FaultTreeService returns the singleton FaultTreeService instance.
func FaultTreeService() primary.FaultTreeService {
	mustInit()
	return faultTreeService
}

// Catalog returns the loaded classification catalog.
func Catalog() secondary.ClassificationCatalog {
	mustInit()
	return classificationStore
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()

	l, err := logger.New(c.LogMode)
	if err != nil {
		initErr = err
		return
	}
	log = l

	timeout, err := c.Timeout()
	if err != nil {
		initErr = err
		return
	}

	classificationStore, err = catalog.Load(c.CatalogPath)
	if err != nil {
		initErr = err
		return
	}

	// Get database connection
	db.SetPath(c.DBPath)
	database, err := db.GetDB()
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	investigationRepo := sqlite.NewInvestigationRepository(database)
	nodeRepo := sqlite.NewCauseNodeRepository(database)
	auditRepo := sqlite.NewAuditLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(auditRepo)

	// One lock table shared by both services so lifecycle and tree edits
	// on the same investigation serialize against each other.
	locks := app.NewInvestigationLocks()

	// Create services (primary ports implementation)
	investigationService = app.NewInvestigationService(investigationRepo, nodeRepo, auditRepo, logWriter, locks, log, timeout)
	faultTreeService = app.NewFaultTreeService(nodeRepo, investigationRepo, classificationStore, logWriter, locks, log, timeout)

	log.Debug("services initialized", "db_path", c.DBPath, "catalog", classificationStore.Standard(), "store_timeout", timeout)
}

func mustInit() {
	if err := Init(); err != nil {
		fmt.Fprintf(os.Stderr, "fta: %v\n", err)
		os.Exit(1)
	}
}

// Shutdown flushes the logger and closes the database.
func Shutdown() {
	if log != nil {
		log.Sync()
	}
	_ = db.Close()
}

// InvestigationAdapter returns a new InvestigationAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func InvestigationAdapter() *cliadapter.InvestigationAdapter {
	return InvestigationAdapterWithOutput(os.Stdout)
}

// InvestigationAdapterWithOutput returns a new InvestigationAdapter writing to the given output.
func InvestigationAdapterWithOutput(out io.Writer) *cliadapter.InvestigationAdapter {
	return cliadapter.NewInvestigationAdapter(InvestigationService(), out)
}

// FaultTreeAdapter returns a new FaultTreeAdapter writing to stdout.
func FaultTreeAdapter(noColor bool) *cliadapter.FaultTreeAdapter {
	return FaultTreeAdapterWithOutput(os.Stdout, noColor)
}

// FaultTreeAdapterWithOutput returns a new FaultTreeAdapter writing to the given output.
func FaultTreeAdapterWithOutput(out io.Writer, noColor bool) *cliadapter.FaultTreeAdapter {
	return cliadapter.NewFaultTreeAdapter(FaultTreeService(), out, noColor)
}

// CatalogAdapter returns a new CatalogAdapter writing to stdout.
func CatalogAdapter() *cliadapter.CatalogAdapter {
	return cliadapter.NewCatalogAdapter(Catalog(), os.Stdout)
}

// HTTPHandler returns the gin router serving the JSON API.
func HTTPHandler() http.Handler {
	mustInit()
	h := httpapi.NewHandlers(investigationService, faultTreeService, log)
	return httpapi.NewRouter(h, log, Config().ActorID())
}
