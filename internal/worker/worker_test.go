package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/repository"
	"github.com/garyjia/invoice-studio/migrations"
	"github.com/garyjia/invoice-studio/pkg/database"
)

func setupRepo(t *testing.T) *repository.InvoiceRepository {
	t.Helper()
	db, err := database.New(database.Config{Path: database.MemoryPath}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrator(db, zap.NewNop()).Run(context.Background(), migrations.FS))
	return repository.NewInvoiceRepository(db.DB, zap.NewNop())
}

func createInvoice(t *testing.T, repo *repository.InvoiceRepository, number, status, due string) *entity.InvoiceRecord {
	t.Helper()
	rec := &entity.InvoiceRecord{
		Number:    number,
		IssueDate: "2024-01-01",
		DueDate:   due,
		Status:    status,
		Items:     []entity.Item{{Name: "Widget", Quantity: 1, Price: decimal.NewFromInt(10)}},
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func fixedClock(day string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse("2006-01-02", day)
		return t
	}
}

func TestOverdueWorker_Sweep(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	late := createInvoice(t, repo, "INV-1", entity.StatusPending, "2024-03-01")
	dueToday := createInvoice(t, repo, "INV-2", entity.StatusPending, "2024-03-10")
	paid := createInvoice(t, repo, "INV-3", entity.StatusPaid, "2024-02-01")
	noDue := createInvoice(t, repo, "INV-4", entity.StatusPending, "")
	garbled := createInvoice(t, repo, "INV-5", entity.StatusPending, "soon")

	// a batch size of 2 forces several pages
	w := NewOverdueWorker(OverdueWorkerConfig{BatchSize: 2}, repo, zap.NewNop())
	w.now = fixedClock("2024-03-10")

	marked, err := w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	tests := []struct {
		rec  *entity.InvoiceRecord
		want string
	}{
		{late, entity.StatusOverdue},
		{dueToday, entity.StatusPending},
		{paid, entity.StatusPaid},
		{noDue, entity.StatusPending},
		{garbled, entity.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.rec.Number, func(t *testing.T) {
			got, err := repo.GetByID(ctx, tt.rec.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}

	marked, err = w.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, marked, "second sweep finds nothing new")
}

func TestOverdueWorker_StartStop(t *testing.T) {
	repo := setupRepo(t)
	createInvoice(t, repo, "INV-1", entity.StatusPending, "2024-03-01")

	w := NewOverdueWorker(OverdueWorkerConfig{PollInterval: time.Hour}, repo, zap.NewNop())
	w.now = fixedClock("2024-03-10")

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))

	// the first sweep runs straight away
	assert.Eventually(t, func() bool {
		return w.Status().MarkedCount == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	assert.False(t, w.Status().IsRunning)
	assert.NoError(t, w.Stop(), "stopping twice is a no-op")
}

type fakeWorker struct {
	name     string
	startErr error
	started  bool
	stopped  bool
}

func (f *fakeWorker) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeWorker) Stop() error {
	f.stopped = true
	return nil
}

func (f *fakeWorker) Name() string { return f.name }

func TestManager(t *testing.T) {
	m := NewManager(zap.NewNop())
	ok := &fakeWorker{name: "ok"}
	broken := &fakeWorker{name: "broken", startErr: errors.New("boom")}
	m.Register(ok)
	m.Register(broken)
	assert.Equal(t, 2, m.Count())

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.True(t, ok.started)
	assert.False(t, broken.started)
	assert.Error(t, m.StartAll(context.Background()))

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	assert.True(t, ok.stopped)
	assert.False(t, broken.stopped, "workers that never started are not stopped")
	assert.NoError(t, m.StopAll())
}
