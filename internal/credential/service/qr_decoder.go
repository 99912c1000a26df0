package service

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
)

// QRDecoder locates and decodes a QR code in a single frame. It keeps no state between
// frames and is safe for concurrent use.
type QRDecoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewQRDecoder creates a decoder that searches each frame exhaustively.
func NewQRDecoder() *QRDecoder {
	return &QRDecoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// LocateAndDecode returns the text of the QR code in frame. The second result is false
// when no readable code is present.
func (d *QRDecoder) LocateAndDecode(frame image.Image) (string, bool) {
	if frame == nil || frame.Bounds().Empty() {
		return "", false
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(frame)
	if err != nil {
		return "", false
	}

	result, err := zxingqr.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil || result == nil {
		return "", false
	}

	text := result.GetText()
	if text == "" {
		return "", false
	}
	return text, true
}
