// Package container wires the invoice studio components together and owns
// their lifecycle.
package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/config"
	"github.com/garyjia/invoice-studio/internal/export"
	"github.com/garyjia/invoice-studio/internal/money"
	"github.com/garyjia/invoice-studio/internal/pdf"
	"github.com/garyjia/invoice-studio/internal/preview"
	"github.com/garyjia/invoice-studio/internal/repository"
	"github.com/garyjia/invoice-studio/internal/storage"
	"github.com/garyjia/invoice-studio/internal/worker"
	"github.com/garyjia/invoice-studio/migrations"
	"github.com/garyjia/invoice-studio/pkg/database"
)

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Invoice  port.InvoiceRepository
	Settings port.SettingsRepository
}

// StorageBundle holds storage-related components.
type StorageBundle struct {
	Assets *storage.AssetSource
	Output *storage.OutputManager
}

// RenderingBundle holds the document producers.
type RenderingBundle struct {
	Generator *pdf.Generator
	Previewer *preview.Renderer
	Exporter  *export.XLSXExporter
}

// ServiceDeps holds dependencies for creating the invoice service.
// Repos may be nil, which leaves only the stateless operations usable.
type ServiceDeps struct {
	Config    *config.Config
	Repos     *RepositoryBundle
	Storage   *StorageBundle
	Rendering *RenderingBundle
	Logger    *zap.Logger
}

// ProvideDatabase opens the database and applies pending migrations.
// Migrations come from MigrationsDir when set, otherwise from the embedded set.
func ProvideDatabase(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		BusyTimeout:     cfg.BusyTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(ctx, cfg.MigrationsDir)
	} else {
		err = migrator.Run(ctx, migrations.FS)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Invoice:  repository.NewInvoiceRepository(db.DB, logger),
		Settings: repository.NewSettingsRepository(db.DB, logger),
	}, nil
}

// ProvideStorage creates the asset source and the output archive.
func ProvideStorage(cfg *config.StorageConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	bundle := &StorageBundle{
		Assets: storage.NewAssetSource(cfg.AssetDir, logger),
	}
	if cfg.OutputDir != "" {
		bundle.Output = storage.NewOutputManager(cfg.OutputDir, logger)
	}
	return bundle, nil
}

// ProvideRendering creates the PDF generator, the page rasterizer and the
// spreadsheet exporter.
func ProvideRendering(cfg *config.Config, images pdf.ImageSource, logger *zap.Logger) (*RenderingBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	return &RenderingBundle{
		Generator: pdf.NewGenerator(cfg.PDFOptions(), images, logger),
		Previewer: preview.NewRenderer(preview.Options{
			DPI:    cfg.PDF.PreviewDPI,
			Format: preview.FormatPNG,
		}, logger),
		Exporter: export.NewXLSXExporter(logger),
	}, nil
}

// ProvideInvoiceService creates the invoice service.
func ProvideInvoiceService(deps *ServiceDeps) (service.InvoiceService, error) {
	if deps == nil || deps.Config == nil || deps.Rendering == nil || deps.Logger == nil {
		return nil, fmt.Errorf("config, rendering and logger are required")
	}

	currency, err := money.ParseCurrency(deps.Config.Invoice.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	var (
		invoices port.InvoiceRepository
		settings port.SettingsRepository
	)
	if deps.Repos != nil {
		invoices, settings = deps.Repos.Invoice, deps.Repos.Settings
	}

	opts := []service.Option{service.WithThumbnailer(deps.Rendering.Previewer)}
	if deps.Storage != nil && deps.Storage.Output != nil {
		opts = append(opts, service.WithArchiver(deps.Storage.Output))
	}

	return service.NewInvoiceService(
		invoices,
		settings,
		deps.Rendering.Generator,
		deps.Rendering.Exporter,
		service.Defaults{
			Company:  deps.Config.Company,
			Invoice:  deps.Config.InvoiceDefaults(),
			Currency: currency,
		},
		deps.Logger.Sugar(),
		opts...,
	), nil
}

// ProvideWorkers creates the background workers. The manager is empty when
// the overdue interval is zero.
func ProvideWorkers(cfg *config.WorkerConfig, repos *RepositoryBundle, logger *zap.Logger) (*worker.Manager, error) {
	if cfg == nil || repos == nil {
		return nil, fmt.Errorf("worker config and repositories are required")
	}

	manager := worker.NewManager(logger)
	if cfg.OverdueInterval > 0 {
		manager.Register(worker.NewOverdueWorker(worker.OverdueWorkerConfig{
			PollInterval: cfg.OverdueInterval,
			BatchSize:    cfg.BatchSize,
		}, repos.Invoice, logger))
	}
	return manager, nil
}
