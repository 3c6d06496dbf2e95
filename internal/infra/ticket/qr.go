package ticket

import (
	"encoding/base64"

	"cinebook/internal/pkg/config"
	"cinebook/internal/pkg/errs"

	qrcode "github.com/skip2/go-qrcode"
)

const dataURLPrefix = "data:image/png;base64,"

type QRGenerator struct {
	size int
}

func NewQRGenerator(cfg config.TicketConfig) *QRGenerator {
	size := cfg.QRSize
	if size <= 0 {
		size = 256
	}
	return &QRGenerator{size: size}
}

// Generate renders payload as a PNG QR code and returns it as a data URL.
func (g *QRGenerator) Generate(payload string) (string, error) {
	if payload == "" {
		return "", errs.New("empty ticket payload")
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, g.size)
	if err != nil {
		return "", errs.Wrap(err, "encode qr code")
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
