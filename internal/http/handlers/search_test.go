package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productshot/internal/domain"
)

func searchRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSearchReturnsAssets(t *testing.T) {
	preview := "https://p/1.png"
	searcher := &fakeSearcher{
		configured: true,
		assets: []domain.AssetResult{
			{ID: "1", Name: "One", MediaURL: "https://m/1.png", PreviewURL: &preview},
			{ID: "2", MediaURL: "https://m/2.png"},
		},
	}
	app := newTestApp(&fakeGenerator{}, searcher, &fakeFetcher{})

	rec := httptest.NewRecorder()
	app.Search(rec, searchRequest(`{"keyword":"  sneakers "}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"assets":[
		{"id":"1","name":"One","mediaUrl":"https://m/1.png","previewUrl":"https://p/1.png"},
		{"id":"2","name":"","mediaUrl":"https://m/2.png","previewUrl":null}
	]}`, rec.Body.String())
	assert.Equal(t, []string{"sneakers"}, searcher.keywords)
}

func TestSearchEmptyResultIsArray(t *testing.T) {
	app := newTestApp(&fakeGenerator{}, &fakeSearcher{configured: true}, &fakeFetcher{})

	rec := httptest.NewRecorder()
	app.Search(rec, searchRequest(`{"keyword":"nothing"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"assets":[]}`, rec.Body.String())
}

func TestSearchRejects(t *testing.T) {
	cases := []struct {
		name       string
		configured bool
		body       string
		wantCode   int
		wantError  string
	}{
		{name: "missing credentials", configured: false, body: `{"keyword":"x"}`, wantCode: http.StatusInternalServerError, wantError: "Missing Sprinklr credentials"},
		{name: "credentials checked first", configured: false, body: `{}`, wantCode: http.StatusInternalServerError, wantError: "Missing Sprinklr credentials"},
		{name: "blank keyword", configured: true, body: `{"keyword":"   "}`, wantCode: http.StatusBadRequest, wantError: "Keyword is required"},
		{name: "missing keyword", configured: true, body: `{}`, wantCode: http.StatusBadRequest, wantError: "Keyword is required"},
		{name: "malformed body", configured: true, body: `{"keyword":`, wantCode: http.StatusBadRequest, wantError: "Keyword is required"},
		{name: "null keyword", configured: true, body: `{"keyword":null}`, wantCode: http.StatusBadRequest, wantError: "Keyword is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			searcher := &fakeSearcher{configured: tc.configured}
			app := newTestApp(&fakeGenerator{}, searcher, &fakeFetcher{})

			rec := httptest.NewRecorder()
			app.Search(rec, searchRequest(tc.body))

			require.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantError, decodeError(t, rec).Error)
			assert.Empty(t, searcher.keywords)
		})
	}
}

func TestSearchNumericKeyword(t *testing.T) {
	searcher := &fakeSearcher{configured: true}
	app := newTestApp(&fakeGenerator{}, searcher, &fakeFetcher{})

	rec := httptest.NewRecorder()
	app.Search(rec, searchRequest(`{"keyword":2024}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2024"}, searcher.keywords)
}

func TestSearchUpstreamFailure(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantError   string
		wantDetails string
	}{
		{
			name:        "status",
			err:         &domain.UpstreamError{Op: domain.OpSearch, StatusCode: 401, Body: "invalid token"},
			wantError:   "Sprinklr search failed: 401",
			wantDetails: "invalid token",
		},
		{
			name:        "transport",
			err:         &domain.UpstreamError{Op: domain.OpSearch, Err: errors.New("connection refused")},
			wantError:   "Sprinklr search failed",
			wantDetails: "search: connection refused",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&fakeGenerator{}, &fakeSearcher{configured: true, err: tc.err}, &fakeFetcher{})

			rec := httptest.NewRecorder()
			app.Search(rec, searchRequest(`{"keyword":"x"}`))

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.wantError, resp.Error)
			assert.Equal(t, tc.wantDetails, resp.Details)
		})
	}
}

func TestHealthAndDefaults(t *testing.T) {
	app := newTestApp(&fakeGenerator{configured: true}, &fakeSearcher{}, &fakeFetcher{})

	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","configured":{"bfl":true,"sprinklr":false}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	app.Defaults(rec, httptest.NewRequest(http.MethodGet, "/v1/defaults", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var defaults defaultsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defaults))
	assert.Equal(t, domain.DefaultPrompt, defaults.Prompt)
	assert.Equal(t, 1024, defaults.Width)
	assert.Equal(t, 1024, defaults.Height)
}

func TestOpenAPIJSONIsValid(t *testing.T) {
	app := newTestApp(&fakeGenerator{}, &fakeSearcher{}, &fakeFetcher{})

	rec := httptest.NewRecorder()
	app.OpenAPIJSON(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/generate", "/search", "/v1/healthz", "/v1/defaults"} {
		assert.Contains(t, paths, p)
	}
}

func TestSearchOversizedBody(t *testing.T) {
	searcher := &fakeSearcher{configured: true}
	app := newTestApp(&fakeGenerator{}, searcher, &fakeFetcher{})

	body := `{"keyword":"` + strings.Repeat("a", maxSearchBody) + `"}`
	rec := httptest.NewRecorder()
	app.Search(rec, searchRequest(body))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Upload too large", decodeError(t, rec).Error)
	assert.Empty(t, searcher.keywords)
}

func TestOpenAPIDocsPage(t *testing.T) {
	app := newTestApp(&fakeGenerator{}, &fakeSearcher{}, &fakeFetcher{})

	rec := httptest.NewRecorder()
	app.OpenAPIDocs(rec, httptest.NewRequest(http.MethodGet, "/v1/docs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	page := rec.Body.String()
	assert.Contains(t, page, "<title>productshot API 1.0.0</title>")
	assert.Contains(t, page, `spec-url="`+OpenAPIPath+`"`)
}

func TestRenderDocsEscapesTitle(t *testing.T) {
	page := string(renderDocs([]byte(`{"info":{"title":"<b>x</b>"}}`), "/spec.json"))
	assert.Contains(t, page, "&lt;b&gt;x&lt;/b&gt;")
	assert.Contains(t, page, `spec-url="/spec.json"`)

	page = string(renderDocs([]byte(`{}`), "/spec.json"))
	assert.Contains(t, page, "<title>API </title>")
}
