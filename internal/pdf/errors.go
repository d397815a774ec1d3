package pdf

import "errors"

var (
	// ErrRenderFailed wraps any unrecoverable failure of document generation
	ErrRenderFailed = errors.New("invoice document generation failed")

	// ErrImageDecode marks image data that cannot be embedded
	ErrImageDecode = errors.New("image data cannot be decoded")

	// ErrImageNotFound is returned by image sources for unknown references
	ErrImageNotFound = errors.New("image not found")
)
