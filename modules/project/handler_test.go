package project

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caricature-preview-server/modules/common/model"
	"caricature-preview-server/modules/pipeline"
	"caricature-preview-server/modules/prompt"
)

// stubGenerator - records the request and returns a fixed PNG
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

func testImagePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8((x + y) % 256), G: 64, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestServer(t *testing.T, gen *stubGenerator) *httptest.Server {
	t.Helper()

	store := NewMemoryStore(30 * time.Minute)
	hub := NewHub()
	service := NewService(store, gen, prompt.NewStaticProvider(), hub)
	handler := NewHandler(service, hub)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func createProject(t *testing.T, server *httptest.Server, body string) CreateResponse {
	t.Helper()

	resp, err := http.Post(server.URL+"/projects", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created CreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ProjectID)
	return created
}

func putUpload(t *testing.T, server *httptest.Server, projectID string, body []byte) *http.Response {
	t.Helper()

	req, err := http.NewRequest("PUT", server.URL+"/projects/"+projectID+"/upload", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "image/png")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getProject(t *testing.T, server *httptest.Server, projectID string) model.Project {
	t.Helper()

	resp, err := http.Get(server.URL + "/projects/" + projectID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p model.Project
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func TestLifecycleHappyPath(t *testing.T) {
	gen := &stubGenerator{output: testImagePNG(t, 1024, 1024)}
	server := newTestServer(t, gen)

	created := createProject(t, server, `{"style_id":"S02B"}`)
	assert.Equal(t, model.StatusCreated, created.Status)
	assert.Equal(t, "/projects/"+created.ProjectID+"/upload", created.UploadURL)

	resp := putUpload(t, server, created.ProjectID, testImagePNG(t, 640, 480))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var uploaded StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	assert.Equal(t, model.StatusUploaded, uploaded.Status)

	resp2, err := http.Post(server.URL+"/projects/"+created.ProjectID+"/upload-complete", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var done StatusResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&done))
	assert.Equal(t, model.StatusPreviewReady, done.Status)
	require.NotNil(t, done.PreviewURL)
	assert.Contains(t, *done.PreviewURL, "data:image/webp;base64,")

	// pipeline saw the normalized square and the S02 prompt
	assert.NotEmpty(t, gen.lastReq.ImageBytes)
	assert.Equal(t, "1:1", gen.lastReq.AspectRatio)
	assert.NotEmpty(t, gen.lastReq.Prompt)
}

func TestCreateParsesStyleToken(t *testing.T) {
	server := newTestServer(t, &stubGenerator{})

	created := createProject(t, server, `{"style_id":"S03C"}`)
	p := getProject(t, server, created.ProjectID)
	assert.Equal(t, "S03", p.StyleID)
	assert.Equal(t, "bold", p.Exaggeration)
	assert.Equal(t, "BG01", p.BackgroundID)
}

func TestCreateEmptyBodyUsesDefaults(t *testing.T) {
	server := newTestServer(t, &stubGenerator{})

	created := createProject(t, server, ``)
	p := getProject(t, server, created.ProjectID)
	assert.Equal(t, "S01", p.StyleID)
	assert.Equal(t, "medium", p.Exaggeration)
}

func TestUploadEmptyBodyRejected(t *testing.T) {
	server := newTestServer(t, &stubGenerator{})
	created := createProject(t, server, `{}`)

	resp := putUpload(t, server, created.ProjectID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// state unchanged by the rejected upload
	p := getProject(t, server, created.ProjectID)
	assert.Equal(t, model.StatusCreated, p.Status)
}

func TestCompleteWithoutUploadRejected(t *testing.T) {
	server := newTestServer(t, &stubGenerator{})
	created := createProject(t, server, `{}`)

	resp, err := http.Post(server.URL+"/projects/"+created.ProjectID+"/upload-complete", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	p := getProject(t, server, created.ProjectID)
	assert.Equal(t, model.StatusCreated, p.Status)
}

func TestUnknownProjectIs404(t *testing.T) {
	server := newTestServer(t, &stubGenerator{})

	resp, err := http.Get(server.URL + "/projects/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2 := putUpload(t, server, "nope", testImagePNG(t, 10, 10))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestCompleteIsIdempotentOncePreviewReady(t *testing.T) {
	gen := &stubGenerator{output: testImagePNG(t, 512, 512)}
	server := newTestServer(t, gen)
	created := createProject(t, server, `{}`)

	resp := putUpload(t, server, created.ProjectID, testImagePNG(t, 300, 300))
	resp.Body.Close()

	for i := 0; i < 2; i++ {
		resp2, err := http.Post(server.URL+"/projects/"+created.ProjectID+"/upload-complete", "application/json", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp2.StatusCode)
		resp2.Body.Close()
	}

	p := getProject(t, server, created.ProjectID)
	assert.Equal(t, model.StatusPreviewReady, p.Status)
}
