package domain

import "strings"

// Fixed DAM search window.
const (
	SearchAssetType  = "PHOTO"
	SearchRows       = 50
	SearchSortKey    = "createdTime"
	SearchSortOrder  = "DESC"
	SearchRangeEndMs = int64(2208988800000)
	DefaultDAMClient = "2001048"
)

// SearchQuery is a keyword search against the DAM.
type SearchQuery struct {
	Keyword string
}

// NewSearchQuery trims keyword and rejects blank input.
func NewSearchQuery(keyword string) (SearchQuery, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return SearchQuery{}, NewValidationError("keyword", "Keyword is required")
	}
	return SearchQuery{Keyword: keyword}, nil
}

// AssetResult is a normalized DAM asset.
type AssetResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	MediaURL   string  `json:"mediaUrl"`
	PreviewURL *string `json:"previewUrl"`
}

// DisplayURL returns the preview URL, falling back to the media URL.
func (a AssetResult) DisplayURL() string {
	if a.PreviewURL != nil && *a.PreviewURL != "" {
		return *a.PreviewURL
	}
	return a.MediaURL
}
