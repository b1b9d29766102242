// Package sprinklr proxies keyword searches to the Sprinklr asset manager.
package sprinklr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"productshot/internal/domain"
	"productshot/internal/infra"
	"productshot/internal/providers/fetch"
)

const DefaultEndpoint = "https://api3.sprinklr.com/prod3/api/v1/sam/search"

// Options configures the search client.
type Options struct {
	BearerToken string
	APIKey      string
	Endpoint    string
	ClientID    string
	HTTPClient  *http.Client
	Logger      *infra.Logger
}

// Client performs DAM searches.
type Client struct {
	token      string
	apiKey     string
	endpoint   string
	clientID   string
	httpClient *http.Client
	logger     *infra.Logger
}

type searchPayload struct {
	Filters        searchFilters  `json:"filters"`
	SortList       []sortSpec     `json:"sortList"`
	KeywordSearch  string         `json:"keywordSearch"`
	RangeCondition rangeCondition `json:"rangeCondition"`
	OnlyAvailable  bool           `json:"onlyAvailable"`
	Start          int            `json:"start"`
	Rows           int            `json:"rows"`
}

type searchFilters struct {
	AssetType []string `json:"ASSET_TYPE"`
	Clients   []string `json:"CLIENTS"`
}

type sortSpec struct {
	Order string `json:"order"`
	Key   string `json:"key"`
}

type rangeCondition struct {
	Start     int64  `json:"start"`
	FieldName string `json:"fieldName"`
	End       int64  `json:"end"`
}

// NewClient constructs a search client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	clientID := strings.TrimSpace(opts.ClientID)
	if clientID == "" {
		clientID = domain.DefaultDAMClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		token:      strings.TrimSpace(opts.BearerToken),
		apiKey:     strings.TrimSpace(opts.APIKey),
		endpoint:   endpoint,
		clientID:   clientID,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether both the bearer token and API key are set.
func (c *Client) HasCredentials() bool {
	return c.token != "" && c.apiKey != ""
}

// Search runs a newest-first photo search for keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.AssetResult, error) {
	if !c.HasCredentials() {
		return nil, &domain.ConfigurationError{Missing: "Sprinklr credentials"}
	}
	query, err := domain.NewSearchQuery(keyword)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(c.payload(query))
	if err != nil {
		return nil, fmt.Errorf("sprinklr: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sprinklr: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Op: domain.OpSearch, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: domain.OpSearch, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{Op: domain.OpSearch, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	assets := MapAssets(raw)
	c.logger.Debug().
		Str("keyword", query.Keyword).
		Int("assets", len(assets)).
		Msg("sprinklr: search")
	return assets, nil
}

func (c *Client) payload(query domain.SearchQuery) searchPayload {
	return searchPayload{
		Filters: searchFilters{
			AssetType: []string{domain.SearchAssetType},
			Clients:   []string{c.clientID},
		},
		SortList:      []sortSpec{{Order: domain.SearchSortOrder, Key: domain.SearchSortKey}},
		KeywordSearch: query.Keyword,
		RangeCondition: rangeCondition{
			Start:     0,
			FieldName: domain.SearchSortKey,
			End:       domain.SearchRangeEndMs,
		},
		OnlyAvailable: false,
		Start:         0,
		Rows:          domain.SearchRows,
	}
}

// MapAssets normalizes a raw search response. A missing or non-array
// socialMediaAssets field yields an empty list; entries without an id or a
// media URL are dropped and the order of the rest is kept.
func MapAssets(raw []byte) []domain.AssetResult {
	assets := []domain.AssetResult{}
	list := gjson.GetBytes(raw, "socialMediaAssets")
	if !list.IsArray() {
		return assets
	}
	list.ForEach(func(_, item gjson.Result) bool {
		id := ScalarText(item.Get("id"))
		mediaURL := cleanURL(item.Get("digitalAsset.mediaUrl"))
		if id == "" || mediaURL == "" {
			return true
		}
		asset := domain.AssetResult{
			ID:       id,
			Name:     ScalarText(item.Get("name")),
			MediaURL: mediaURL,
		}
		if previewURL := cleanURL(item.Get("digitalAsset.previewUrl")); previewURL != "" {
			asset.PreviewURL = &previewURL
		}
		assets = append(assets, asset)
		return true
	})
	return assets
}

// ScalarText renders a scalar JSON value as text. Falsy values (null, false,
// 0, "") and non-scalars become empty.
func ScalarText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		if v.Num == 0 {
			return ""
		}
		return v.Raw
	case gjson.True:
		return "true"
	default:
		return ""
	}
}

func cleanURL(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return fetch.StripQuoteArtifact(v.Str)
}
