package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOutputManager_Save(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	m := NewOutputManager(tempDir, zap.NewNop())

	pdfPath, err := m.SavePDF(ctx, "INV/2024/001", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "INV2024001", "invoice_INV2024001.pdf"), pdfPath)
	assert.FileExists(t, pdfPath)

	xlsxPath, err := m.SaveXLSX(ctx, "INV/2024/001", []byte("PK"))
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(xlsxPath))

	pngPath, err := m.SaveThumbnail(ctx, "INV/2024/001", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "thumbnail_INV2024001.png", filepath.Base(pngPath))

	entries, err := os.ReadDir(m.FolderPath("INV/2024/001"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.NoError(t, m.DeleteFolder("INV/2024/001"))
	assert.NoDirExists(t, m.FolderPath("INV/2024/001"))
	assert.NoError(t, m.DeleteFolder("INV/2024/001"))
}

func TestOutputManager_RejectsUnusableNumber(t *testing.T) {
	m := NewOutputManager(t.TempDir(), zap.NewNop())

	_, err := m.SavePDF(context.Background(), "../..", []byte("%PDF"))

	assert.Error(t, err)
}

func TestSanitizeFolderName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"INV-001", "INV-001"},
		{"INV_2024_7", "INV_2024_7"},
		{"../../etc/passwd", "etcpasswd"},
		{`INV\001`, "INV001"},
		{"INV 001 (copy)", "INV001copy"},
		{"बिल-1", "-1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFolderName(tt.input))
		})
	}
}
