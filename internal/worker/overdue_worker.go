// Package worker runs background maintenance over stored invoices.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// OverdueWorkerConfig holds configuration for the overdue worker
type OverdueWorkerConfig struct {
	PollInterval time.Duration
	// BatchSize is how many pending invoices are read per query
	BatchSize int
}

// DefaultOverdueWorkerConfig returns default configuration
func DefaultOverdueWorkerConfig() OverdueWorkerConfig {
	return OverdueWorkerConfig{
		PollInterval: time.Hour,
		BatchSize:    100,
	}
}

// OverdueWorker marks pending invoices overdue once their due date has passed.
// Invoices without a due date, or with one that does not parse, are left alone.
type OverdueWorker struct {
	config   OverdueWorkerConfig
	invoices port.InvoiceRepository
	logger   *zap.Logger
	now      func() time.Time

	mu          sync.RWMutex
	cancel      context.CancelFunc
	done        chan struct{}
	isRunning   bool
	markedCount int
	lastRun     time.Time
	lastError   error
}

// OverdueWorkerStatus reports worker state
type OverdueWorkerStatus struct {
	IsRunning   bool
	MarkedCount int
	LastRun     time.Time
	LastError   error
}

// NewOverdueWorker creates a new overdue worker
func NewOverdueWorker(config OverdueWorkerConfig, invoices port.InvoiceRepository, logger *zap.Logger) *OverdueWorker {
	defaults := DefaultOverdueWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &OverdueWorker{
		config:   config,
		invoices: invoices,
		logger:   logger,
		now:      time.Now,
	}
}

// Name returns the worker name for identification
func (w *OverdueWorker) Name() string {
	return "OverdueWorker"
}

// Start runs one sweep immediately, then one per poll interval
func (w *OverdueWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("overdue worker already running")
	}

	var loopCtx context.Context
	loopCtx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.isRunning = true

	w.logger.Info("OverdueWorker started", zap.Duration("poll_interval", w.config.PollInterval))
	go w.pollLoop(loopCtx, w.done)
	return nil
}

// Stop terminates the worker and waits for an in-flight sweep to finish
func (w *OverdueWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	w.logger.Info("OverdueWorker stopped", zap.Int("marked_count", w.Status().MarkedCount))
	return nil
}

// Status returns the current worker state
func (w *OverdueWorker) Status() OverdueWorkerStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return OverdueWorkerStatus{
		IsRunning:   w.isRunning,
		MarkedCount: w.markedCount,
		LastRun:     w.lastRun,
		LastError:   w.lastError,
	}
}

func (w *OverdueWorker) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		w.runOnce(ctx)

		select {
		case <-ctx.Done():
			w.logger.Debug("Poll loop context cancelled")
			return
		case <-ticker.C:
		}
	}
}

func (w *OverdueWorker) runOnce(ctx context.Context) {
	marked, err := w.Sweep(ctx)

	w.mu.Lock()
	w.lastRun = w.now()
	w.markedCount += marked
	w.lastError = err
	w.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		w.logger.Error("Failed to mark overdue invoices", zap.Error(err))
	}
}

// Sweep marks every pending invoice whose due date is before today and
// returns how many were changed
func (w *OverdueWorker) Sweep(ctx context.Context) (int, error) {
	today := w.now().Format("2006-01-02")

	var due []*entity.InvoiceRecord
	for offset := 0; ; offset += w.config.BatchSize {
		records, err := w.invoices.List(ctx, entity.InvoiceListFilter{
			Status: entity.StatusPending,
			Limit:  w.config.BatchSize,
			Offset: offset,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to list pending invoices: %w", err)
		}
		for _, rec := range records {
			if isPastDue(rec.DueDate, today) {
				due = append(due, rec)
			}
		}
		if len(records) < w.config.BatchSize {
			break
		}
	}

	marked := 0
	for _, rec := range due {
		if err := ctx.Err(); err != nil {
			return marked, err
		}
		rec.Status = entity.StatusOverdue
		if err := w.invoices.Update(ctx, rec); err != nil {
			return marked, fmt.Errorf("failed to mark invoice %s overdue: %w", rec.ID, err)
		}
		marked++
		w.logger.Info("Invoice marked overdue",
			zap.String("id", rec.ID),
			zap.String("invoice_number", rec.Number),
			zap.String("due_date", rec.DueDate))
	}
	return marked, nil
}

// isPastDue compares ISO dates; both are YYYY-MM-DD so string order is date order
func isPastDue(dueDate, today string) bool {
	if _, err := time.Parse("2006-01-02", dueDate); err != nil {
		return false
	}
	return dueDate < today
}
