package port

import (
	"context"
	"errors"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/invoice"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// InvoiceRepository defines persistence operations for InvoiceRecord
type InvoiceRepository interface {
	// Create stores a new invoice, assigning an ID when none is set
	Create(ctx context.Context, rec *entity.InvoiceRecord) error

	// GetByID retrieves an invoice by its ID, or ErrNotFound
	GetByID(ctx context.Context, id string) (*entity.InvoiceRecord, error)

	// List returns invoices newest first
	List(ctx context.Context, filter entity.InvoiceListFilter) ([]*entity.InvoiceRecord, error)

	// Count returns the number of invoices matching the filter, ignoring limit and offset
	Count(ctx context.Context, filter entity.InvoiceListFilter) (int, error)

	// Update replaces the stored snapshot of an invoice
	Update(ctx context.Context, rec *entity.InvoiceRecord) error

	// Delete removes an invoice
	Delete(ctx context.Context, id string) error
}

// SettingsRepository persists the company profile and invoice configuration
type SettingsRepository interface {
	// GetCompanyProfile returns the stored profile; found is false when none was saved
	GetCompanyProfile(ctx context.Context) (profile invoice.CompanyProfile, found bool, err error)
	// GetInvoiceConfig returns the stored configuration; found is false when none was saved
	GetInvoiceConfig(ctx context.Context) (cfg invoice.Config, found bool, err error)
	// Save stores both documents atomically
	Save(ctx context.Context, profile invoice.CompanyProfile, cfg invoice.Config) error
}
