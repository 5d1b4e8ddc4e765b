package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	p := NewPhotoProcessor(1600, testLogger(t))

	_, _, err := p.Normalize([]byte("definitely not an image"), "notes.txt")
	assert.ErrorIs(t, err, ErrNotImage)

	_, _, err = p.Normalize(nil, "empty")
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestNormalizePassesThroughSmallImages(t *testing.T) {
	p := NewPhotoProcessor(1600, testLogger(t))
	data := encodePNG(t, 32, 32)

	out, name, err := p.Normalize(data, "shelf.png")
	require.NoError(t, err)
	assert.Equal(t, data, out, "in-bounds images are untouched")
	assert.Equal(t, "shelf.png", name)
}

func TestNormalizeDownscalesOversized(t *testing.T) {
	p := NewPhotoProcessor(64, testLogger(t))
	data := encodePNG(t, 128, 32)

	out, name, err := p.Normalize(data, "shelf.png")
	require.NoError(t, err)
	assert.Equal(t, "shelf.jpg", name)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 64)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), 64)
}
