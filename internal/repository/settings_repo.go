package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/invoice"
)

// SettingsRepository implements port.SettingsRepository on the key/value settings table
type SettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetCompanyProfile returns the stored company profile
func (r *SettingsRepository) GetCompanyProfile(ctx context.Context) (invoice.CompanyProfile, bool, error) {
	var profile invoice.CompanyProfile
	found, err := r.get(ctx, entity.SettingsKeyCompany, &profile)
	return profile, found, err
}

// GetInvoiceConfig returns the stored invoice configuration
func (r *SettingsRepository) GetInvoiceConfig(ctx context.Context) (invoice.Config, bool, error) {
	var cfg invoice.Config
	found, err := r.get(ctx, entity.SettingsKeyInvoice, &cfg)
	return cfg, found, err
}

// Save stores the company profile and invoice configuration in one transaction
func (r *SettingsRepository) Save(ctx context.Context, profile invoice.CompanyProfile, cfg invoice.Config) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.put(ctx, tx, entity.SettingsKeyCompany, profile); err != nil {
		return err
	}
	if err := r.put(ctx, tx, entity.SettingsKeyInvoice, cfg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit settings", zap.Error(err))
		return fmt.Errorf("failed to commit settings: %w", err)
	}

	r.logger.Info("Settings saved")
	return nil
}

func (r *SettingsRepository) get(ctx context.Context, key string, dest any) (bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to read setting", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return false, fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return true, nil
}

func (r *SettingsRepository) put(ctx context.Context, tx *sql.Tx, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}

	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, key, string(data), time.Now().UTC()); err != nil {
		r.logger.Error("Failed to write setting", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
