package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"productshot/internal/domain"
	"productshot/internal/infra"
)

type fakeGenerator struct {
	mu         sync.Mutex
	configured bool
	job        *domain.GenerationJob
	err        error
	got        []domain.GenerationRequest
}

func (f *fakeGenerator) HasCredentials() bool { return f.configured }

func (f *fakeGenerator) SubmitAndWait(_ context.Context, req domain.GenerationRequest) (*domain.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

func (f *fakeGenerator) requests() []domain.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GenerationRequest(nil), f.got...)
}

type fakeFetcher struct {
	mu    sync.Mutex
	data  map[string][]byte
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchBytes(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	return f.data[rawURL], nil
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeSearcher struct {
	mu         sync.Mutex
	configured bool
	assets     []domain.AssetResult
	err        error
	keywords   []string
}

func (f *fakeSearcher) HasCredentials() bool { return f.configured }

func (f *fakeSearcher) Search(_ context.Context, keyword string) ([]domain.AssetResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywords = append(f.keywords, keyword)
	return f.assets, f.err
}

func newTestApp(gen Generator, assets AssetSearcher, fetcher ImageFetcher) *App {
	cfg := &infra.Config{MaxUploadBytes: 1 << 20}
	return NewApp(cfg, infra.DiscardLogger(), gen, assets, fetcher)
}

type formFile struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/generate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
