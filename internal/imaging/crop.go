package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
)

// EncodedImage is a PNG ready to hand to a client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode renders img as a base64 PNG.
func Encode(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropWord cuts the region of a word out of img. The bounds are in source
// pixels; padding grows them on every side before they are clipped to the
// image. A scale other than 1 resizes the crop, which helps when showing
// small print.
func CropWord(img image.Image, bounds geometry.Rect, padding int, scale float64) (*EncodedImage, error) {
	if padding < 0 {
		padding = 0
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid crop scale %v: must be positive", scale)
	}

	imgBounds := img.Bounds()
	r := bounds.Clamp().ImageRect().
		Add(imgBounds.Min).
		Inset(-padding).
		Intersect(imgBounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop region %+v lies outside image bounds %v", bounds, imgBounds)
	}

	cropped := imaging.Crop(img, r)
	if scale != 1.0 {
		w := int(math.Round(float64(cropped.Bounds().Dx()) * scale))
		h := int(math.Round(float64(cropped.Bounds().Dy()) * scale))
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	return Encode(cropped)
}
