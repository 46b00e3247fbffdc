package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caricature-preview-server/modules/pipeline"
	"caricature-preview-server/modules/prompt"
)

type stubGenerator struct {
	lastReq pipeline.Request
	output  []byte
	err     error
}

func (g *stubGenerator) GeneratePreview(ctx context.Context, req pipeline.Request) ([]byte, error) {
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.output, nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postPreview(t *testing.T, gen *stubGenerator, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	router := mux.NewRouter()
	NewHandler(gen, prompt.NewStaticProvider()).RegisterRoutes(router)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/preview", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPreviewHappyPath(t *testing.T) {
	gen := &stubGenerator{output: testPNG(t, 800, 800)}

	rec := postPreview(t, gen, PreviewRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(testPNG(t, 640, 480)),
		StyleID:  "S02B",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "image/webp", resp.MimeType)

	decoded, err := base64.StdEncoding.DecodeString(resp.PreviewBase64)
	require.NoError(t, err)
	assert.NotEmpty(t, decoded)

	assert.NotEmpty(t, gen.lastReq.Prompt)
	assert.Equal(t, "1:1", gen.lastReq.AspectRatio)
}

func TestPreviewMissingImage(t *testing.T) {
	rec := postPreview(t, &stubGenerator{}, PreviewRequest{StyleID: "S01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewBadBase64(t *testing.T) {
	rec := postPreview(t, &stubGenerator{}, PreviewRequest{ImageBase64: "not-base64!!!"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewUndecodableImage(t *testing.T) {
	rec := postPreview(t, &stubGenerator{}, PreviewRequest{
		ImageBase64: base64.StdEncoding.EncodeToString([]byte("plain text")),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
