package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server with no database and no generation
// backend. Storage endpoints must 503 and generation must degrade.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{Port: 0})
	require.NoError(t, err)
	return s
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "unavailable", body["generation"])
}

func TestHandleFill_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleFill(rec, httptest.NewRequest(http.MethodPost, "/fill", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFill_MissingURL(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	body := `{"profile": {"first_name": "Ada"}}`
	s.handleFill(rec, httptest.NewRequest(http.MethodPost, "/fill", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "URL")
}

func TestHandleFill_ProfileIDWithoutDatabase(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	body := `{"url": "https://jobs.example.com/apply/1", "profile_id": "3b241101-e2bb-4255-8caf-4136c566a962"}`
	s.handleFill(rec, httptest.NewRequest(http.MethodPost, "/fill", strings.NewReader(body)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleFill_NeitherProfileNorID(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	body := `{"url": "https://jobs.example.com/apply/1"}`
	s.handleFill(rec, httptest.NewRequest(http.MethodPost, "/fill", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "profile")
}

func TestHandleFill_InvalidInlineProfile(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	// Email fails validation.
	body := `{"url": "https://jobs.example.com/apply/1", "profile": {"first_name": "Ada", "email": "not-an-email"}}`
	s.handleFill(rec, httptest.NewRequest(http.MethodPost, "/fill", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExtractProfile_MissingResumeText(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleExtractProfile(rec, httptest.NewRequest(http.MethodPost, "/extract-profile", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExtractProfile_ParsesStructuredTextWithoutLLM(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	payload := map[string]string{
		"resume_text": `{"firstName": "Grace", "lastName": "Hopper", "email": "grace@example.com"}`,
	}
	raw, _ := json.Marshal(payload)
	s.handleExtractProfile(rec, httptest.NewRequest(http.MethodPost, "/extract-profile", strings.NewReader(string(raw))))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	profile, ok := body["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Grace", profile["first_name"])
}

func TestHandleExtractProfile_UnusableTextRejected(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleExtractProfile(rec, httptest.NewRequest(http.MethodPost, "/extract-profile",
		strings.NewReader(`{"resume_text": "just some prose with no structure"}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "enter details manually")
}

func TestHandleExtractProfile_SaveWithoutDatabase(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	payload := map[string]any{
		"resume_text": `{"firstName": "Grace", "email": "grace@example.com"}`,
		"save":        true,
	}
	raw, _ := json.Marshal(payload)
	s.handleExtractProfile(rec, httptest.NewRequest(http.MethodPost, "/extract-profile", strings.NewReader(string(raw))))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleSummarize_RequiresURLOrJobText(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleSummarize(rec, httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "url or job_text")
}

func TestHandleSummarize_NoGenerationBackend(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleSummarize(rec, httptest.NewRequest(http.MethodPost, "/summarize",
		strings.NewReader(`{"job_text": "We are hiring engineers."}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleListProfiles_NoDatabase(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleListProfiles(rec, httptest.NewRequest(http.MethodGet, "/profiles", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "no database")
}

func TestHandleGetProfile_InvalidUUID(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/profiles/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	s.handleGetProfile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetFillRun_NoDatabase(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/fill-runs/3b241101-e2bb-4255-8caf-4136c566a962", nil)
	req.SetPathValue("id", "3b241101-e2bb-4255-8caf-4136c566a962")
	s.handleGetFillRun(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleCreateProfile_NoDatabase(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	s.handleCreateProfile(rec, httptest.NewRequest(http.MethodPost, "/profiles",
		strings.NewReader(`{"first_name": "Ada"}`)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoutes_HealthThroughFullChain(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.10:4242"
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrProfileNotFound{}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrRunNotFound{}))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(&ErrNoDatabase{}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
