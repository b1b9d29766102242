package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"productshot/internal/domain"
	"productshot/internal/providers/sprinklr"
)

const maxSearchBody = 1 << 20

type searchResponse struct {
	Assets []domain.AssetResult `json:"assets"`
}

// Search proxies a JSON {"keyword"} body to the DAM search API. An oversized
// body is rejected; an unreadable or malformed one is treated as a blank
// keyword.
func (a *App) Search(w http.ResponseWriter, r *http.Request) {
	if !a.Assets.HasCredentials() {
		a.error(w, http.StatusInternalServerError, "Missing Sprinklr credentials", "")
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSearchBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "Upload too large", err.Error())
			return
		}
		raw = nil
	}
	keyword := ""
	if gjson.ValidBytes(raw) {
		keyword = sprinklr.ScalarText(gjson.GetBytes(raw, "keyword"))
	}
	query, err := domain.NewSearchQuery(keyword)
	if err != nil {
		a.writeSearchError(w, r, err)
		return
	}

	assets, err := a.Assets.Search(r.Context(), query.Keyword)
	if err != nil {
		a.writeSearchError(w, r, err)
		return
	}
	if assets == nil {
		assets = []domain.AssetResult{}
	}
	a.json(w, http.StatusOK, searchResponse{Assets: assets})
}
