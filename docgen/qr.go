package docgen

import (
	qrcode "github.com/skip2/go-qrcode"
)

// QREncoder turns text into a PNG image.
type QREncoder interface {
	Encode(content string) ([]byte, error)
}

// QRCode encodes with go-qrcode at a fixed width and no quiet zone.
type QRCode struct {
	Width int
	Level qrcode.RecoveryLevel
}

func NewQRCode() QRCode {
	return QRCode{Width: 300, Level: qrcode.Medium}
}

func (q QRCode) Encode(content string) ([]byte, error) {
	code, err := qrcode.New(content, q.Level)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	return code.PNG(q.Width)
}
