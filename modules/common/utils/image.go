package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	"image/png"
	"log"

	"github.com/disintegration/imaging"
	_ "github.com/kolesa-team/go-webp/decoder" // WebP decoder registration
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"caricature-preview-server/modules/common/apperr"
)

// NormalizedEdge - fixed square edge length fed to the generation model
const NormalizedEdge = 1024

// NormalizeToSquare - orientation-correct, cover-fit crop to a fixed square,
// re-encode losslessly as PNG for the model call
func NormalizeToSquare(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Decode("failed to decode input image", err)
	}

	squared := imaging.Fill(img, NormalizedEdge, NormalizedEdge, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, squared); err != nil {
		return nil, fmt.Errorf("failed to encode normalized image: %w", err)
	}

	log.Printf("✅ Input normalized to %dx%d PNG (%d bytes)", NormalizedEdge, NormalizedEdge, buf.Len())
	return buf.Bytes(), nil
}

// ConvertImageToBase64 - image bytes to base64 string
func ConvertImageToBase64(imageData []byte) string {
	return base64.StdEncoding.EncodeToString(imageData)
}

// ConvertToWebP - encode a decoded image as lossy WebP at the given quality
func ConvertToWebP(img image.Image, quality float32) ([]byte, error) {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage - decode any registered format, mapping failures to DecodeError
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Decode("failed to decode image", err)
	}
	return img, nil
}
