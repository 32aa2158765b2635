package page

import (
	"encoding/base64"
	"fmt"
	"html/template"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCode is a PNG QR code pointing at a page URL.
type QRCode struct {
	URL     string
	DataURI template.URL
}

// NewQRCode encodes url as a size×size PNG QR code.
func NewQRCode(url string, size int) (*QRCode, error) {
	if size <= 0 {
		size = 160
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return &QRCode{
		URL:     url,
		DataURI: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}, nil
}
