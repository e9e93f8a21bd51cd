package service

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

var ErrPublicURLMissing = errors.New("public URL is not configured")

// QRGenerator renders a QR code pointing at the ordering form
type QRGenerator interface {
	Generate(size int) ([]byte, error)
}

// DefaultQRGenerator encodes FormURL as a PNG
type DefaultQRGenerator struct {
	FormURL string
}

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

func (g DefaultQRGenerator) Generate(size int) ([]byte, error) {
	if g.FormURL == "" {
		return nil, ErrPublicURLMissing
	}
	if size <= 0 || size > maxQRSize {
		size = defaultQRSize
	}
	return qrcode.Encode(g.FormURL, qrcode.Medium, size)
}
