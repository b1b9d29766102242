package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"productshot/internal/domain"
	"productshot/internal/infra"
)

// Generator submits a generation job and waits for its sample.
type Generator interface {
	HasCredentials() bool
	SubmitAndWait(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationJob, error)
}

// AssetSearcher runs DAM keyword searches.
type AssetSearcher interface {
	HasCredentials() bool
	Search(ctx context.Context, keyword string) ([]domain.AssetResult, error)
}

// ImageFetcher downloads URL-sourced input images.
type ImageFetcher interface {
	FetchBytes(ctx context.Context, rawURL string) ([]byte, error)
}

type App struct {
	Config    *infra.Config
	Logger    *infra.Logger
	Generator Generator
	Assets    AssetSearcher
	Fetcher   ImageFetcher
}

func NewApp(cfg *infra.Config, logger *infra.Logger, gen Generator, assets AssetSearcher, fetcher ImageFetcher) *App {
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &App{Config: cfg, Logger: logger, Generator: gen, Assets: assets, Fetcher: fetcher}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message, details string) {
	a.json(w, code, errorResponse{Error: message, Details: details})
}

func (a *App) maxUploadBytes() int64 {
	if a.Config == nil || a.Config.MaxUploadBytes <= 0 {
		return 20 << 20
	}
	return a.Config.MaxUploadBytes
}
