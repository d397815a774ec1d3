package pdf

import (
	"fmt"

	"go.uber.org/zap"
)

// ImageSource resolves an image reference (file name, data URI, ...) to raw bytes
type ImageSource interface {
	Load(ref string) ([]byte, error)
}

// ImageSourceFunc adapts a function to ImageSource
type ImageSourceFunc func(ref string) ([]byte, error)

func (f ImageSourceFunc) Load(ref string) ([]byte, error) {
	return f(ref)
}

// noImages is used when a Generator has no image source
var noImages = ImageSourceFunc(func(ref string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrImageNotFound, ref)
})

// loadImageOrDefault registers ref on the canvas, falling back to fallbackRef.
// It returns nil when neither can be loaded; image problems never stop a render.
func loadImageOrDefault(c Canvas, src ImageSource, logger *zap.Logger, name, ref, fallbackRef string) *ImageHandle {
	for i, candidate := range []string{ref, fallbackRef} {
		if candidate == "" || (i == 1 && candidate == ref) {
			continue
		}
		img, err := registerImage(c, src, fmt.Sprintf("%s-%d", name, i), candidate)
		if err == nil {
			return img
		}
		logger.Warn("Image unavailable, trying fallback",
			zap.String("image", name),
			zap.String("ref", candidate),
			zap.Error(err))
	}
	logger.Warn("Image omitted from document", zap.String("image", name))
	return nil
}

func registerImage(c Canvas, src ImageSource, name, ref string) (*ImageHandle, error) {
	data, err := src.Load(ref)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrImageDecode, ref)
	}
	return c.RegisterImage(name, data)
}

// fitImage scales img to fit inside a maxW × maxH box, keeping its aspect ratio
func fitImage(img *ImageHandle, maxW, maxH float64) (float64, float64) {
	if img.Width <= 0 || img.Height <= 0 {
		return maxW, maxH
	}
	ratio := float64(img.Width) / float64(img.Height)
	w, h := maxW, maxW/ratio
	if h > maxH {
		h = maxH
		w = maxH * ratio
	}
	return w, h
}
