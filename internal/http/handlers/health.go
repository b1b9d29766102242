package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status string          `json:"status"`
	Config map[string]bool `json:"configured"`
}

// Health always reports ok; "configured" shows which upstreams have credentials.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, healthResponse{
		Status: "ok",
		Config: map[string]bool{
			"bfl":      a.Generator != nil && a.Generator.HasCredentials(),
			"sprinklr": a.Assets != nil && a.Assets.HasCredentials(),
		},
	})
}
