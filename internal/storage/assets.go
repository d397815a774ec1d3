package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// MaxAssetSize bounds logo and stamp images
const MaxAssetSize = 5 << 20

var (
	ErrUnsupportedRef = errors.New("unsupported image reference")
	ErrAssetTooLarge  = errors.New("image exceeds size limit")
)

// AssetSource resolves logo and stamp references for the PDF generator.
// A reference is either a data URI or a path relative to the asset directory.
type AssetSource struct {
	files  *LocalFileStorage
	logger *zap.Logger
}

// NewAssetSource creates an AssetSource rooted at assetDir
func NewAssetSource(assetDir string, logger *zap.Logger) *AssetSource {
	return &AssetSource{
		files:  NewLocalFileStorage(assetDir, logger),
		logger: logger,
	}
}

// Load returns the raw bytes behind ref
func (a *AssetSource) Load(ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("%w: empty reference", ErrUnsupportedRef)
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRef, ref)
	}

	data, err := a.files.Read(context.Background(), ref)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxAssetSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrAssetTooLarge, ref, len(data))
	}
	a.logger.Debug("Asset loaded", zap.String("ref", ref), zap.Int("size", len(data)))
	return data, nil
}

// decodeDataURI decodes data:[<mediatype>][;base64],<data>
func decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: data URI has no payload", ErrUnsupportedRef)
	}

	var data []byte
	if strings.HasSuffix(header, ";base64") {
		// Accepts URL-safe and unpadded payloads
		payload = strings.TrimRight(strings.Map(func(r rune) rune {
			switch r {
			case '-':
				return '+'
			case '_':
				return '/'
			case ' ', '\n', '\r', '\t':
				return -1
			}
			return r
		}, payload), "=")
		decoded, err := base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64: %v", ErrUnsupportedRef, err)
		}
		data = decoded
	} else {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid data URI: %v", ErrUnsupportedRef, err)
		}
		data = []byte(decoded)
	}

	if len(data) > MaxAssetSize {
		return nil, fmt.Errorf("%w: inline image is %d bytes", ErrAssetTooLarge, len(data))
	}
	return data, nil
}
