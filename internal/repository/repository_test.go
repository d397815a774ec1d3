package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/migrations"
	"github.com/garyjia/invoice-studio/pkg/database"
)

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{Path: database.MemoryPath}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, zap.NewNop()).Run(context.Background(), migrations.FS))
	return db
}

func sampleRecord() *entity.InvoiceRecord {
	rate := decimal.NewFromInt(18)
	return &entity.InvoiceRecord{
		Number:    "INV-001",
		IssueDate: "2024-03-05",
		DueDate:   "2024-04-04",
		Customer:  entity.Customer{Name: "Acme Corp", Email: "billing@acme.test"},
		Items: []entity.Item{
			{Name: "Consulting", Description: "Review", Quantity: 2, Price: decimal.RequireFromString("1500.50"), Specs: []string{"Remote"}},
		},
		Settings: entity.InvoiceSettings{
			Currency:   "INR",
			Discount:   decimal.NewFromInt(5),
			TaxEnabled: true,
			TaxRate:    &rate,
		},
		PaymentDetails: &entity.PaymentDetails{BankName: "HDFC Bank"},
		Notes:          entity.ListNotes("Net 30", "Thanks"),
		CreatedBy:      "Priya",
	}
}

func TestInvoiceRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(setupDB(t).DB, zap.NewNop())

	rec := sampleRecord()
	require.NoError(t, repo.Create(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, entity.StatusDraft, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.Number, got.Number)
	assert.Equal(t, rec.Customer, got.Customer)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("1500.50")))
	assert.Equal(t, []string{"Remote"}, got.Items[0].Specs)
	require.NotNil(t, got.Settings.TaxRate)
	assert.True(t, got.Settings.TaxRate.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "HDFC Bank", got.PaymentDetails.BankName)
	assert.Equal(t, entity.NotesList, got.Notes.Kind)
	assert.Equal(t, []string{"Net 30", "Thanks"}, got.Notes.List)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestInvoiceRepository_OptionalColumns(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(setupDB(t).DB, zap.NewNop())

	rec := &entity.InvoiceRecord{Number: "INV-002", Status: entity.StatusPaid}
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PaymentDetails)
	assert.Equal(t, entity.NotesAbsent, got.Notes.Kind)
	assert.Nil(t, got.Settings.TaxRate)
	assert.Empty(t, got.Items)
	assert.Equal(t, entity.StatusPaid, got.Status)
}

func TestInvoiceRepository_UnreadableNotes(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewInvoiceRepository(db.DB, zap.NewNop())

	tests := []struct {
		name   string
		stored string
		want   entity.NotesKind
	}{
		{"not json", `{broken`, entity.NotesAbsent},
		{"number", `42`, entity.NotesAbsent},
		{"mixed list", `["Net 30", 7]`, entity.NotesList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			require.NoError(t, repo.Create(ctx, rec))
			_, err := db.ExecContext(ctx, "UPDATE invoices SET notes = ? WHERE id = ?", tt.stored, rec.ID)
			require.NoError(t, err)

			got, err := repo.GetByID(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Notes.Kind)
			assert.Equal(t, "Acme Corp", got.Customer.Name)
		})
	}

	mixed, err := repo.List(ctx, entity.InvoiceListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mixed, len(tests))
}

func TestInvoiceRepository_GetByIDNotFound(t *testing.T) {
	repo := NewInvoiceRepository(setupDB(t).DB, zap.NewNop())

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(setupDB(t).DB, zap.NewNop())

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	statuses := []string{entity.StatusDraft, entity.StatusPaid, entity.StatusPaid}
	for i, status := range statuses {
		at := base.Add(time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return at }
		require.NoError(t, repo.Create(ctx, &entity.InvoiceRecord{Number: "INV-" + string(rune('A'+i)), Status: status}))
	}

	all, err := repo.List(ctx, entity.InvoiceListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "INV-C", all[0].Number)
	assert.Equal(t, "INV-A", all[2].Number)

	paid, err := repo.List(ctx, entity.InvoiceListFilter{Status: entity.StatusPaid})
	require.NoError(t, err)
	assert.Len(t, paid, 2)

	page, err := repo.List(ctx, entity.InvoiceListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "INV-B", page[0].Number)

	count, err := repo.Count(ctx, entity.InvoiceListFilter{Status: entity.StatusPaid, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInvoiceRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(setupDB(t).DB, zap.NewNop())

	rec := sampleRecord()
	require.NoError(t, repo.Create(ctx, rec))
	created := rec.CreatedAt

	rec.Customer.Name = "Acme Industries"
	rec.Notes = entity.TextNotes("Paid in full")
	rec.PaymentDetails = nil
	require.NoError(t, repo.Update(ctx, rec))
	assert.WithinDuration(t, created, rec.CreatedAt, time.Second)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Industries", got.Customer.Name)
	assert.Equal(t, entity.TextNotes("Paid in full"), got.Notes)
	assert.Nil(t, got.PaymentDetails)

	assert.ErrorIs(t, repo.Update(ctx, &entity.InvoiceRecord{ID: "missing"}), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, rec.ID))
	_, err = repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), ErrNotFound)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(setupDB(t).DB, zap.NewNop())

	_, found, err := repo.GetCompanyProfile(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	profile := invoice.CompanyProfile{Name: "Orbit Labs", LogoRef: "orbit.png"}
	cfg := invoice.Config{
		DefaultNotes:   []string{},
		ThankYouText:   "Cheers",
		DefaultTaxRate: decimal.RequireFromString("12.5"),
	}
	require.NoError(t, repo.Save(ctx, profile, cfg))

	gotProfile, found, err := repo.GetCompanyProfile(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, profile, gotProfile)

	gotCfg, found, err := repo.GetInvoiceConfig(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, gotCfg.DefaultNotes)
	assert.Empty(t, gotCfg.DefaultNotes)
	assert.Equal(t, "Cheers", gotCfg.ThankYouText)
	assert.True(t, gotCfg.DefaultTaxRate.Equal(decimal.RequireFromString("12.5")))

	// Saving again overwrites
	profile.Name = "Orbit Labs Pvt Ltd"
	require.NoError(t, repo.Save(ctx, profile, invoice.Config{}))
	gotProfile, _, err = repo.GetCompanyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Orbit Labs Pvt Ltd", gotProfile.Name)
	gotCfg, _, err = repo.GetInvoiceConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, gotCfg.DefaultNotes)
}
