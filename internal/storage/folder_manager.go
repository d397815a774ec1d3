package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// OutputManager files rendered documents under one folder per invoice number:
// {baseDir}/{number}/invoice_{number}.pdf
type OutputManager struct {
	files  *LocalFileStorage
	logger *zap.Logger
}

// NewOutputManager creates a new OutputManager rooted at baseDir
func NewOutputManager(baseDir string, logger *zap.Logger) *OutputManager {
	return &OutputManager{
		files:  NewLocalFileStorage(baseDir, logger),
		logger: logger,
	}
}

// SavePDF stores a rendered invoice and returns its full path
func (m *OutputManager) SavePDF(ctx context.Context, invoiceNumber string, content []byte) (string, error) {
	return m.save(ctx, invoiceNumber, "invoice", ".pdf", content)
}

// SaveXLSX stores an exported workbook and returns its full path
func (m *OutputManager) SaveXLSX(ctx context.Context, invoiceNumber string, content []byte) (string, error) {
	return m.save(ctx, invoiceNumber, "invoice", ".xlsx", content)
}

// SaveThumbnail stores a page image and returns its full path
func (m *OutputManager) SaveThumbnail(ctx context.Context, invoiceNumber string, content []byte) (string, error) {
	return m.save(ctx, invoiceNumber, "thumbnail", ".png", content)
}

// FolderPath returns the folder of an invoice. It does not create it.
func (m *OutputManager) FolderPath(invoiceNumber string) string {
	return m.files.GetFullPath(SanitizeFolderName(invoiceNumber))
}

// DeleteFolder removes an invoice folder and all contents; a missing folder is not an error
func (m *OutputManager) DeleteFolder(invoiceNumber string) error {
	folderPath := m.FolderPath(invoiceNumber)
	if err := m.files.ValidatePath(folderPath); err != nil {
		return err
	}
	if err := os.RemoveAll(folderPath); err != nil {
		m.logger.Error("Failed to delete invoice folder",
			zap.String("invoice_number", invoiceNumber),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return nil
}

func (m *OutputManager) save(ctx context.Context, invoiceNumber, prefix, ext string, content []byte) (string, error) {
	folder := SanitizeFolderName(invoiceNumber)
	if folder == "" {
		return "", fmt.Errorf("cannot store document: invoice number %q has no usable characters", invoiceNumber)
	}

	rel := filepath.Join(folder, prefix+"_"+folder+ext)
	if err := m.files.Save(ctx, rel, content); err != nil {
		return "", err
	}

	fullPath := m.files.GetFullPath(rel)
	m.logger.Info("Document stored",
		zap.String("invoice_number", invoiceNumber),
		zap.String("path", fullPath))
	return fullPath, nil
}

// SanitizeFolderName returns a filesystem-safe version of the name.
// Only letters, digits, hyphens and underscores survive.
func SanitizeFolderName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	return unsafeNameChars.ReplaceAllString(name, "")
}
