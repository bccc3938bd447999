package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

// Error variables for QR code generation
var (
	// ErrEmptyContent is returned when content string is empty or only whitespace
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrorFailedToGenerateQRCode is returned when the QR code generation fails.
	ErrorFailedToGenerateQRCode = errors.New("failed to generate QR code")
)

const (
	// defaultSize is the size in pixels used when no size is specified
	defaultSize = 256

	dataURIPrefix = "data:image/png;base64,"
)

// RecoveryLevel is the error correction level of the generated code.
type RecoveryLevel = skipqrcode.RecoveryLevel

const (
	Low     = skipqrcode.Low
	Medium  = skipqrcode.Medium
	High    = skipqrcode.High
	Highest = skipqrcode.Highest
)

// Generate creates a QR code image in PNG format with the given content.
// Returns the image as a byte slice or an error if generation fails.
func Generate(content string, size int) ([]byte, error) {
	return generate(content, size, Medium)
}

// GenerateBase64Image returns the QR code for content as a PNG data URI,
// ready for an <img src="..."> attribute.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return toDataURI(png), nil
}

// Renderer turns provisioning URIs into embeddable images.
// The zero value renders 256px codes with low error correction.
type Renderer struct {
	Size  int
	Level RecoveryLevel
}

// NewRenderer returns a Renderer producing size x size images.
func NewRenderer(size int) *Renderer {
	return &Renderer{Size: size, Level: Medium}
}

// Render returns content encoded as a PNG data URI.
func (r *Renderer) Render(content string) (string, error) {
	png, err := generate(content, r.Size, r.Level)
	if err != nil {
		return "", err
	}
	return toDataURI(png), nil
}

func generate(content string, size int, level RecoveryLevel) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := skipqrcode.Encode(content, level, size)
	if err != nil {
		return nil, errors.Join(ErrorFailedToGenerateQRCode, err)
	}
	return png, nil
}

func toDataURI(png []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png)
}
