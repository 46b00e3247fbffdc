package watermark

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caricature-preview-server/modules/common/apperr"
	"caricature-preview-server/modules/common/utils"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeWebP(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := webp.Decode(bytes.NewReader(data), &decoder.Options{})
	require.NoError(t, err)
	return img
}

func TestApplyBoundsWidth(t *testing.T) {
	out, err := Apply(testPNG(t, 1024, 1024))
	require.NoError(t, err)

	img := decodeWebP(t, out)
	assert.Equal(t, maxPreviewWidth, img.Bounds().Dx())
	assert.Equal(t, maxPreviewWidth, img.Bounds().Dy())
}

func TestApplyNeverUpscales(t *testing.T) {
	out, err := Apply(testPNG(t, 400, 300))
	require.NoError(t, err)

	img := decodeWebP(t, out)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestApplyDeterministic(t *testing.T) {
	src := testPNG(t, 512, 512)

	first, err := Apply(src)
	require.NoError(t, err)
	second, err := Apply(src)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestApplyChangesPixels(t *testing.T) {
	src := testPNG(t, 512, 512)
	out, err := Apply(src)
	require.NoError(t, err)

	srcImg, err := utils.DecodeImage(src)
	require.NoError(t, err)
	plain, err := utils.ConvertToWebP(srcImg, webpQuality)
	require.NoError(t, err)
	assert.NotEqual(t, plain, out)
}

func TestApplyRejectsGarbage(t *testing.T) {
	_, err := Apply([]byte("not an image"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindDecode))
}
