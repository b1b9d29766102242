package handlers

import (
	"net/http"

	"productshot/internal/domain"
)

type defaultsResponse struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Defaults returns the values the generation form starts with.
func (a *App) Defaults(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, defaultsResponse{
		Prompt: domain.DefaultPrompt,
		Width:  domain.DefaultWidth,
		Height: domain.DefaultHeight,
	})
}
