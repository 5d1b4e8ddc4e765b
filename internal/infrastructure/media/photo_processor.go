// Package media validates and normalizes uploaded stockpile photos
// before they are forwarded to the remote analyzer.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/gensai-lab/sonae-go/internal/infrastructure/observability/logging"
)

// ErrNotImage indicates the uploaded payload could not be decoded as an
// image. The analyzer is never called with such a payload.
var ErrNotImage = errors.New("payload is not a decodable image")

// PhotoProcessor normalizes uploads: non-images are rejected, oversized
// images are downscaled, and webp is transcoded because the analyzer
// only accepts jpeg and png.
type PhotoProcessor struct {
	maxDimension int
	logger       *logging.ChanneledLogger
}

// NewPhotoProcessor creates a PhotoProcessor. maxDimension bounds the
// longer image edge in pixels.
func NewPhotoProcessor(maxDimension int, logger *logging.ChanneledLogger) *PhotoProcessor {
	return &PhotoProcessor{
		maxDimension: maxDimension,
		logger:       logger,
	}
}

// Normalize validates the payload and returns the bytes and filename to
// forward. Payloads that already fit are passed through untouched.
func (p *PhotoProcessor) Normalize(data []byte, filename string) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", ErrNotImage
	}

	img, format, err := decode(data)
	if err != nil {
		p.logger.Diagnostic().Warn("Rejected photo upload", "filename", filename, "error", err.Error())
		return nil, "", ErrNotImage
	}

	bounds := img.Bounds()
	oversized := bounds.Dx() > p.maxDimension || bounds.Dy() > p.maxDimension
	if !oversized && format != "webp" {
		return data, filename, nil
	}

	if oversized {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
		p.logger.Diagnostic().Debug("Downscaled photo upload",
			"filename", filename, "width", bounds.Dx(), "height", bounds.Dy(), "maxDimension", p.maxDimension)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("re-encode photo: %w", err)
	}
	return buf.Bytes(), jpegName(filename), nil
}

func decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}

	if webpImg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return webpImg, "webp", nil
	}
	return nil, "", err
}

func jpegName(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		filename = filename[:i]
	}
	if filename == "" {
		filename = "photo"
	}
	return filename + ".jpg"
}
