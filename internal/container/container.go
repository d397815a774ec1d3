package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/config"
	"github.com/garyjia/invoice-studio/internal/worker"
	"github.com/garyjia/invoice-studio/pkg/database"
)

// Container owns every long-lived component of an invoice-studio process.
// Start builds them in dependency order; Close tears down whatever Start built, newest first.
type Container struct {
	config    *config.Config
	logger    *zap.Logger
	stateless bool

	db             *database.DB
	repositories   *RepositoryBundle
	storage        *StorageBundle
	rendering      *RenderingBundle
	invoiceService service.InvoiceService
	workers        *worker.Manager

	mu       sync.Mutex
	teardown []func() error
	ready    atomic.Bool
	closed   atomic.Bool
}

// HealthStatus is the aggregate health of a container
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth is the health of one component
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

func (h *HealthStatus) set(name string, healthy bool, message string) {
	h.Components[name] = ComponentHealth{Healthy: healthy, Message: message}
	h.Overall = h.Overall && healthy
}

// Option configures a Container.
type Option func(*Container)

// Stateless skips the database and workers. Stored-invoice operations are unavailable.
func Stateless() Option {
	return func(c *Container) { c.stateless = true }
}

// NewContainer validates cfg. Nothing is opened until Start.
func NewContainer(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Container{config: cfg, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start builds database and repositories, storage, rendering, the invoice
// service and workers, in that order. On failure everything already built is torn down.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed.Load():
		return fmt.Errorf("container has been closed")
	case c.ready.Load():
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container", zap.Bool("stateless", c.stateless))

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"database", c.startDatabase},
		{"storage", c.startStorage},
		{"rendering", c.startRendering},
		{"services", c.startServices},
		{"workers", c.startWorkers},
	}
	for _, stage := range stages {
		if err := stage.run(ctx); err != nil {
			if tdErr := c.runTeardown(); tdErr != nil {
				c.logger.Error("Teardown after failed start", zap.Error(tdErr))
			}
			return fmt.Errorf("failed to initialize %s: %w", stage.name, err)
		}
	}

	c.ready.Store(true)
	c.logger.Info("Container started")
	return nil
}

// Close releases everything Start built. A second Close is an error.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Swap(true) {
		return fmt.Errorf("container already closed")
	}
	c.ready.Store(false)

	if err := c.runTeardown(); err != nil {
		return err
	}
	c.logger.Info("Container closed")
	return nil
}

// Ready reports whether Start completed and Close has not run
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health checks the database, workers and rendering pipeline
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{Overall: true, Components: make(map[string]ComponentHealth)}

	switch {
	case c.stateless:
		status.set("database", true, "disabled")
	case c.db == nil:
		status.set("database", false, "not initialized")
	default:
		if err := c.db.PingContext(ctx); err != nil {
			status.set("database", false, fmt.Sprintf("ping failed: %v", err))
		} else {
			status.set("database", true, "")
		}
	}

	if c.workers != nil {
		status.set("workers", c.workers.IsRunning(), fmt.Sprintf("worker count: %d", c.workers.Count()))
	}

	if c.rendering == nil {
		status.set("rendering", false, "not initialized")
	} else {
		status.set("rendering", true, "")
	}
	return status
}

func (c *Container) onClose(fn func() error) {
	c.teardown = append(c.teardown, fn)
}

func (c *Container) runTeardown() error {
	var errs []error
	for i := len(c.teardown) - 1; i >= 0; i-- {
		if err := c.teardown[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.teardown = nil
	return errors.Join(errs...)
}

func (c *Container) startDatabase(ctx context.Context) error {
	if c.stateless {
		return nil
	}

	db, err := ProvideDatabase(ctx, &c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = db
	c.onClose(func() error {
		err := db.Close()
		c.db = nil
		if err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		return nil
	})

	repos, err := ProvideRepositories(db, c.logger)
	if err != nil {
		return err
	}
	c.repositories = repos
	return nil
}

func (c *Container) startStorage(context.Context) error {
	storage, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return err
	}
	c.storage = storage
	return nil
}

func (c *Container) startRendering(context.Context) error {
	rendering, err := ProvideRendering(c.config, c.storage.Assets, c.logger)
	if err != nil {
		return err
	}
	c.rendering = rendering
	return nil
}

func (c *Container) startServices(context.Context) error {
	svc, err := ProvideInvoiceService(&ServiceDeps{
		Config:    c.config,
		Repos:     c.repositories,
		Storage:   c.storage,
		Rendering: c.rendering,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	c.invoiceService = svc
	return nil
}

func (c *Container) startWorkers(ctx context.Context) error {
	if c.stateless {
		return nil
	}

	workers, err := ProvideWorkers(&c.config.Worker, c.repositories, c.logger)
	if err != nil {
		return err
	}
	if err := workers.StartAll(ctx); err != nil {
		return err
	}
	c.workers = workers
	c.onClose(func() error {
		if err := workers.StopAll(); err != nil {
			return fmt.Errorf("stop workers: %w", err)
		}
		return nil
	})
	return nil
}

// InvoiceService returns the invoice service.
func (c *Container) InvoiceService() service.InvoiceService {
	return c.invoiceService
}

// Repositories returns all repositories. Nil for stateless containers.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Storage returns the storage components.
func (c *Container) Storage() *StorageBundle {
	return c.storage
}

// Rendering returns the document producers.
func (c *Container) Rendering() *RenderingBundle {
	return c.rendering
}

// Workers returns the worker manager. Nil for stateless containers.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
