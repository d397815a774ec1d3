package port

import "context"

// FileStorage holds invoice assets (logos, stamps) and archived documents
// (rendered PDFs, spreadsheets, thumbnails). Paths are relative to one storage
// root; implementations reject paths that resolve outside it.
type FileStorage interface {
	// Save replaces the file at path, creating parent folders as needed
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether path is a regular file inside the root
	Exists(ctx context.Context, path string) bool
	// Delete removes path; a missing file is not an error
	Delete(ctx context.Context, path string) error
	// GetFullPath maps path to its filesystem location without checking it
	GetFullPath(path string) string
}
