package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAssetSource_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewLocalFileStorage(dir, zap.NewNop()).Save(context.Background(), "logo.png", []byte("logo-bytes")))
	src := NewAssetSource(dir, zap.NewNop())

	t.Run("file in asset dir", func(t *testing.T) {
		data, err := src.Load("logo.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("logo-bytes"), data)
	})

	t.Run("base64 data uri", func(t *testing.T) {
		ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("inline"))
		data, err := src.Load(ref)
		require.NoError(t, err)
		assert.Equal(t, []byte("inline"), data)
	})

	t.Run("url-safe unpadded data uri", func(t *testing.T) {
		raw := []byte{0xfb, 0xff, 0xfe, 0x01}
		ref := "data:image/png;base64," + base64.RawURLEncoding.EncodeToString(raw)
		data, err := src.Load(ref)
		require.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("percent-encoded data uri", func(t *testing.T) {
		data, err := src.Load("data:text/plain,hello%20world")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), data)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := src.Load("data:image/png;base64,!!!")
		assert.ErrorIs(t, err, ErrUnsupportedRef)
	})

	t.Run("remote url", func(t *testing.T) {
		_, err := src.Load("https://example.com/logo.png")
		assert.ErrorIs(t, err, ErrUnsupportedRef)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := src.Load("absent.png")
		assert.Error(t, err)
	})

	t.Run("escaping path", func(t *testing.T) {
		_, err := src.Load("../outside.png")
		assert.ErrorIs(t, err, ErrPathEscapes)
	})

	t.Run("oversized file", func(t *testing.T) {
		big := filepath.Join(dir, "big.png")
		require.NoError(t, os.WriteFile(big, make([]byte, MaxAssetSize+1), 0644))
		_, err := src.Load("big.png")
		assert.ErrorIs(t, err, ErrAssetTooLarge)
	})
}
