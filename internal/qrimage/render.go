// Package qrimage renders token payloads as PNG QR codes.
package qrimage

import (
	"encoding/base64"
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize    = 256
	dataURLPNGHead = "data:image/png;base64,"
)

// ErrEmptyPayload is returned for an empty input string
var ErrEmptyPayload = errors.New("qr payload is empty")

// Renderer draws payloads at a fixed size and error correction level
type Renderer struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// NewRenderer returns a renderer with medium error correction
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{Size: size, Level: qrcode.Medium}
}

// Render returns the PNG bytes for payload. The payload is encoded verbatim.
func (r *Renderer) Render(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	png, err := qrcode.Encode(payload, r.Level, r.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

// RenderDataURL returns the PNG as a data URL for direct use in an <img> tag
func (r *Renderer) RenderDataURL(payload string) (string, error) {
	png, err := r.Render(payload)
	if err != nil {
		return "", err
	}
	return dataURLPNGHead + base64.StdEncoding.EncodeToString(png), nil
}

// DecodeDataURL extracts the PNG bytes from a data URL produced by RenderDataURL
func DecodeDataURL(dataURL string) ([]byte, error) {
	if len(dataURL) < len(dataURLPNGHead) || dataURL[:len(dataURLPNGHead)] != dataURLPNGHead {
		return nil, errors.New("not a png data url")
	}
	return base64.StdEncoding.DecodeString(dataURL[len(dataURLPNGHead):])
}
