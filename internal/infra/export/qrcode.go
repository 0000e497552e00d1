package export

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

var ErrEmptyURL = errors.New("export: empty url")

// ShareQRCode gera o PNG do link público da proposta.
func ShareQRCode(url string, size int) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
