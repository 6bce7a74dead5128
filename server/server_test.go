package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/cvpress/config"
	"github.com/ByLCY/cvpress/drafts"
	"github.com/ByLCY/cvpress/export"
	"github.com/ByLCY/cvpress/storage"
)

const resumeJSON = `{"personalInfo":{"fullName":"Jane Doe","title":"Engineer"},"experiences":[{"position":"Engineer","company":"Acme"}],"skills":["Go"]}`

func newTestRouter(t *testing.T, sink storage.ArtifactStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	exp, err := export.FromConfig(config.Default())
	require.NoError(t, err)
	h := &Handler{Exporter: exp, Drafts: drafts.NewMemoryStore(), Sink: sink, MaxBody: 1 << 20}
	return NewRouter(h)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out.Error
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)
	resp := do(r, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))
}

func TestRequestIDPropagates(t *testing.T) {
	r := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, "abc-123", resp.Header().Get("X-Request-Id"))
}

func TestExportResume(t *testing.T) {
	r := newTestRouter(t, nil)
	resp := do(r, http.MethodPost, "/api/v1/resumes/export?template=classic", resumeJSON)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Jane_Doe_CV.pdf"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", resp.Header().Get("X-Page-Count"))
	assert.Equal(t, "classic", resp.Header().Get("X-Template"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")))
}

func TestExportRejectsInvalidJSON(t *testing.T) {
	r := newTestRouter(t, nil)
	resp := do(r, http.MethodPost, "/api/v1/resumes/export", "{oops")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "invalid_json", decodeError(t, resp).Code)
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
}

func TestExportBodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exp, err := export.FromConfig(config.Default())
	require.NoError(t, err)
	r := NewRouter(&Handler{Exporter: exp, Drafts: drafts.NewMemoryStore(), MaxBody: 16})
	resp := do(r, http.MethodPost, "/api/v1/resumes/export", resumeJSON)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestExportStore(t *testing.T) {
	dir := t.TempDir()
	r := newTestRouter(t, storage.NewLocalStore(dir))
	resp := do(r, http.MethodPost, "/api/v1/resumes/export?store=true", resumeJSON)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "Jane_Doe_CV.pdf", out["fileName"])
	assert.True(t, strings.HasPrefix(out["location"].(string), dir))

	// 未配置存储时拒绝
	r = newTestRouter(t, nil)
	resp = do(r, http.MethodPost, "/api/v1/resumes/export?store=true", resumeJSON)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "store_unavailable", decodeError(t, resp).Code)
}

func TestLayoutDebug(t *testing.T) {
	r := newTestRouter(t, nil)
	resp := do(r, http.MethodPost, "/api/v1/resumes/layout?template=creative", resumeJSON)
	require.Equal(t, http.StatusOK, resp.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	pages, ok := out["pages"].([]any)
	require.True(t, ok, "debug JSON 应包含 pages")
	assert.Len(t, pages, 1)
}

func TestDraftLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	resp := do(r, http.MethodPost, "/api/v1/drafts", `{"name":"Main","template":"minimal","data":`+resumeJSON+`}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var d drafts.Draft
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &d))
	require.NotEmpty(t, d.ID)
	assert.Equal(t, "Main", d.Name)

	resp = do(r, http.MethodGet, "/api/v1/drafts/"+d.ID, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = do(r, http.MethodGet, "/api/v1/drafts", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list struct {
		Drafts []drafts.Draft `json:"drafts"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Drafts, 1)

	resp = do(r, http.MethodPut, "/api/v1/drafts/"+d.ID, `{"name":"Renamed"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	var updated drafts.Draft
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "minimal", updated.Template)

	resp = do(r, http.MethodGet, "/api/v1/drafts/"+d.ID+"/export", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "minimal", resp.Header().Get("X-Template"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")))

	resp = do(r, http.MethodGet, "/api/v1/drafts/"+d.ID+"/export?template=modern", "")
	assert.Equal(t, "modern", resp.Header().Get("X-Template"))

	resp = do(r, http.MethodDelete, "/api/v1/drafts/"+d.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = do(r, http.MethodGet, "/api/v1/drafts/"+d.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "not_found", decodeError(t, resp).Code)
}

func TestDraftErrors(t *testing.T) {
	r := newTestRouter(t, nil)

	resp := do(r, http.MethodPost, "/api/v1/drafts", `{"name":"","data":{}}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "invalid_input", decodeError(t, resp).Code)

	resp = do(r, http.MethodPost, "/api/v1/drafts", `{"name":"x","data":[1,2]}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(r, http.MethodPost, "/api/v1/drafts", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "invalid_json", decodeError(t, resp).Code)

	resp = do(r, http.MethodPut, "/api/v1/drafts/missing", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = do(r, http.MethodDelete, "/api/v1/drafts/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = do(r, http.MethodGet, "/api/v1/drafts/missing/export", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
