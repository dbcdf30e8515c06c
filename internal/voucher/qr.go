package voucher

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 256

// QRCodePNG renders the voucher code as a PNG QR image for captive-portal scanning.
func QRCodePNG(code string, size int) ([]byte, error) {
	if !ValidCode(code) {
		return nil, fmt.Errorf("qr code: invalid voucher code %q", code)
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(code, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return png, nil
}
