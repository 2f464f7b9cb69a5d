package infra

import (
	qrcode "github.com/skip2/go-qrcode"
)

// qrImageSize is the pixel width/height of rendered QR codes.
const qrImageSize = 300

// QRRenderer turns a payload string (the scan URL) into PNG bytes.
// Pure function, no persisted state.
type QRRenderer struct {
	size int
}

func NewQRRenderer() *QRRenderer { return &QRRenderer{size: qrImageSize} }

func (r *QRRenderer) Render(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, r.size)
}
