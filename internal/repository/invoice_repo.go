package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// ErrNotFound is returned when an invoice does not exist
var ErrNotFound = port.ErrNotFound

// DefaultListLimit caps listings that do not set a limit
const DefaultListLimit = 50

const invoiceColumns = `id, invoice_number, issue_date, due_date, status, customer, items,
	settings, payment_details, notes, created_by, created_at, updated_at`

// InvoiceRepository implements port.InvoiceRepository on sqlite
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a new invoice record
func (r *InvoiceRepository) Create(ctx context.Context, rec *entity.InvoiceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = entity.StatusDraft
	}
	now := r.now()
	rec.CreatedAt, rec.UpdatedAt = now, now

	cols, err := encodeInvoice(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Number,
		rec.IssueDate,
		rec.DueDate,
		rec.Status,
		cols.customer,
		cols.items,
		cols.settings,
		cols.payment,
		cols.notes,
		rec.CreatedBy,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice",
			zap.String("invoice_number", rec.Number),
			zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	r.logger.Debug("Invoice created", zap.String("id", rec.ID), zap.String("invoice_number", rec.Number))
	return nil
}

// GetByID retrieves an invoice by its ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	rec, err := r.scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get invoice by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return rec, nil
}

// List returns invoices newest first
func (r *InvoiceRepository) List(ctx context.Context, filter entity.InvoiceListFilter) ([]*entity.InvoiceRecord, error) {
	where, args := filterClause(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := max(filter.Offset, 0)

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var records []*entity.InvoiceRecord
	for rows.Next() {
		rec, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of invoices matching the filter
func (r *InvoiceRepository) Count(ctx context.Context, filter entity.InvoiceListFilter) (int, error) {
	where, args := filterClause(filter)

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// Update replaces the stored snapshot of an invoice. CreatedAt is preserved.
func (r *InvoiceRepository) Update(ctx context.Context, rec *entity.InvoiceRecord) error {
	if rec.Status == "" {
		rec.Status = entity.StatusDraft
	}
	rec.UpdatedAt = r.now()

	cols, err := encodeInvoice(rec)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices
		SET invoice_number = ?, issue_date = ?, due_date = ?, status = ?, customer = ?, items = ?,
			settings = ?, payment_details = ?, notes = ?, created_by = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.Number,
		rec.IssueDate,
		rec.DueDate,
		rec.Status,
		cols.customer,
		cols.items,
		cols.settings,
		cols.payment,
		cols.notes,
		rec.CreatedBy,
		rec.UpdatedAt,
		rec.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice", zap.String("id", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if err := requireAffected(result, rec.ID); err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `SELECT created_at FROM invoices WHERE id = ?`, rec.ID).Scan(&rec.CreatedAt)
}

// Delete removes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	return nil
}

func filterClause(filter entity.InvoiceListFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// invoiceJSON holds the JSON-encoded columns of an invoice row
type invoiceJSON struct {
	customer string
	items    string
	settings string
	payment  sql.NullString
	notes    sql.NullString
}

func encodeInvoice(rec *entity.InvoiceRecord) (invoiceJSON, error) {
	var out invoiceJSON

	customer, err := json.Marshal(rec.Customer)
	if err != nil {
		return out, fmt.Errorf("failed to encode customer: %w", err)
	}
	items := rec.Items
	if items == nil {
		items = []entity.Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return out, fmt.Errorf("failed to encode items: %w", err)
	}
	settings, err := json.Marshal(rec.Settings)
	if err != nil {
		return out, fmt.Errorf("failed to encode settings: %w", err)
	}
	out.customer, out.items, out.settings = string(customer), string(itemsJSON), string(settings)

	if rec.PaymentDetails != nil {
		payment, err := json.Marshal(rec.PaymentDetails)
		if err != nil {
			return out, fmt.Errorf("failed to encode payment details: %w", err)
		}
		out.payment = sql.NullString{String: string(payment), Valid: true}
	}
	if rec.Notes.Kind != entity.NotesAbsent {
		notes, err := json.Marshal(rec.Notes)
		if err != nil {
			return out, fmt.Errorf("failed to encode notes: %w", err)
		}
		out.notes = sql.NullString{String: string(notes), Valid: true}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *InvoiceRepository) scanInvoice(row rowScanner) (*entity.InvoiceRecord, error) {
	var rec entity.InvoiceRecord
	var cols invoiceJSON

	err := row.Scan(
		&rec.ID,
		&rec.Number,
		&rec.IssueDate,
		&rec.DueDate,
		&rec.Status,
		&cols.customer,
		&cols.items,
		&cols.settings,
		&cols.payment,
		&cols.notes,
		&rec.CreatedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(cols.customer), &rec.Customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(cols.items), &rec.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(cols.settings), &rec.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings of %s: %w", rec.ID, err)
	}
	if cols.payment.Valid {
		rec.PaymentDetails = &entity.PaymentDetails{}
		if err := json.Unmarshal([]byte(cols.payment.String), rec.PaymentDetails); err != nil {
			return nil, fmt.Errorf("failed to decode payment details of %s: %w", rec.ID, err)
		}
	}
	if cols.notes.Valid {
		if err := json.Unmarshal([]byte(cols.notes.String), &rec.Notes); err != nil {
			r.logger.Warn("Stored notes are unreadable, using fallback notes",
				zap.String("id", rec.ID),
				zap.Error(err))
			rec.Notes = entity.Notes{}
		}
	}
	return &rec, nil
}
