package watermark

import (
	"fmt"
	"log"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"caricature-preview-server/modules/common/utils"
)

const (
	labelText = "PREVIEW"

	// previews are bounded, never upscaled
	maxPreviewWidth = 768
	webpQuality     = 85

	labelAlpha = 0.55
)

var labelFont *truetype.Font

func init() {
	parsed, err := truetype.Parse(gobold.TTF)
	if err != nil {
		// embedded font, parse cannot fail at runtime
		panic(fmt.Sprintf("failed to parse watermark font: %v", err))
	}
	labelFont = parsed
}

// Apply - overlay the PREVIEW label and re-encode as lossy WebP.
// Deterministic: identical input bytes produce identical output bytes.
func Apply(data []byte) ([]byte, error) {
	img, err := utils.DecodeImage(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxPreviewWidth {
		img = imaging.Resize(img, maxPreviewWidth, 0, imaging.Lanczos)
		bounds = img.Bounds()
	}

	width := float64(bounds.Dx())
	height := float64(bounds.Dy())
	fontSize := width / 8

	dc := gg.NewContextForImage(img)
	dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{
		Size:    fontSize,
		Hinting: font.HintingFull,
	}))

	// soft dark underlay keeps the label readable on bright images
	dc.SetRGBA(0, 0, 0, labelAlpha*0.6)
	dc.DrawStringAnchored(labelText, width/2+2, height-fontSize+2, 0.5, 0.5)
	dc.SetRGBA(1, 1, 1, labelAlpha)
	dc.DrawStringAnchored(labelText, width/2, height-fontSize, 0.5, 0.5)

	out, err := utils.ConvertToWebP(dc.Image(), webpQuality)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Watermarked preview: %dx%d, %d bytes", bounds.Dx(), bounds.Dy(), len(out))
	return out, nil
}
