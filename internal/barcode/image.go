package barcode

import (
	"image"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Image renders a payload as a Code 128 barcode. An all-digit payload of even
// length is encoded entirely in character set C.
func Image(payload string, width, height int) (image.Image, error) {
	if len(payload) != PayloadLength || !isDigits(payload) {
		return nil, NewValidationError("barcode", payload, "payload must be 54 digits")
	}
	code, err := code128.Encode(payload)
	if err != nil {
		return nil, err
	}
	return bc.Scale(code, width, height)
}
