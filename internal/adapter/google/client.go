// internal/adapter/google/client.go

// Package google talks to the Places API (New) for text search, place
// details, and photo media.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"emojimap/internal/domain/place"
	"emojimap/internal/service/geo"
)

// Default endpoints for the Places API (New)
const (
	DefaultSearchEndpoint = "https://places.googleapis.com/v1/places:searchText"
	DefaultDetailEndpoint = "https://places.googleapis.com/v1"
	DefaultMediaBase      = "https://places.googleapis.com/v1"
)

// maxResponseBytes bounds how much of an upstream body is read
const maxResponseBytes = 10 << 20

// Config contains configuration for the Places client
type Config struct {
	APIKey             string
	SearchEndpoint     string
	DetailEndpoint     string
	MediaBase          string
	Timeout            time.Duration
	DefaultPageSize    int
	MaxPageSize        int
	RankPreference     string
	DefaultBufferMiles float64
	DefaultPhotoHeight int
	MaxPhotoHeight     int
}

// DefaultConfig returns the configuration used when fields are left empty
func DefaultConfig() Config {
	return Config{
		SearchEndpoint:     DefaultSearchEndpoint,
		DetailEndpoint:     DefaultDetailEndpoint,
		MediaBase:          DefaultMediaBase,
		Timeout:            8 * time.Second,
		DefaultPageSize:    20,
		MaxPageSize:        50,
		RankPreference:     "DISTANCE",
		DefaultBufferMiles: 1,
		DefaultPhotoHeight: 800,
		MaxPhotoHeight:     1600,
	}
}

// Client performs upstream Places API calls
type Client struct {
	config      Config
	httpClient  *http.Client
	mediaClient *http.Client
}

// NewClient creates a new Places client. Zero-valued config fields fall back
// to DefaultConfig.
func NewClient(config Config) *Client {
	config = withDefaults(config)

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		mediaClient: &http.Client{
			Timeout: config.Timeout,
			// The redirect target is the photo URL; it is never downloaded.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func withDefaults(c Config) Config {
	d := DefaultConfig()
	if c.SearchEndpoint == "" {
		c.SearchEndpoint = d.SearchEndpoint
	}
	if c.DetailEndpoint == "" {
		c.DetailEndpoint = d.DetailEndpoint
	}
	if c.MediaBase == "" {
		c.MediaBase = d.MediaBase
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = d.DefaultPageSize
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = d.MaxPageSize
	}
	if c.RankPreference == "" {
		c.RankPreference = d.RankPreference
	}
	if c.DefaultBufferMiles <= 0 {
		c.DefaultBufferMiles = d.DefaultBufferMiles
	}
	if c.DefaultPhotoHeight <= 0 {
		c.DefaultPhotoHeight = d.DefaultPhotoHeight
	}
	if c.MaxPhotoHeight <= 0 {
		c.MaxPhotoHeight = d.MaxPhotoHeight
	}
	return c
}

// LocationRestriction limits a search to a rectangle
type LocationRestriction struct {
	Rectangle place.LocationBuffer `json:"rectangle"`
}

// RequestBody is the JSON body of a text search
type RequestBody struct {
	TextQuery           string               `json:"textQuery"`
	PageSize            int                  `json:"pageSize"`
	RankPreference      string               `json:"rankPreference"`
	OpenNow             bool                 `json:"openNow,omitempty"`
	LocationRestriction *LocationRestriction `json:"locationRestriction,omitempty"`
	PageToken           string               `json:"pageToken,omitempty"`
}

// searchResponse keeps places raw so a non-array value can be detected
type searchResponse struct {
	Places        json.RawMessage `json:"places"`
	NextPageToken string          `json:"nextPageToken"`
}

// PrepareRequestBody builds the search body. A location restriction is only
// attached when the location parses; otherwise the search is unrestricted.
func (c *Client) PrepareRequestBody(params place.SearchParams) RequestBody {
	pageSize := c.config.DefaultPageSize
	if params.Limit > 0 {
		pageSize = params.Limit
	}
	if pageSize > c.config.MaxPageSize {
		pageSize = c.config.MaxPageSize
	}

	body := RequestBody{
		TextQuery:      params.TextQuery,
		PageSize:       pageSize,
		RankPreference: c.config.RankPreference,
		OpenNow:        params.OpenNow,
		PageToken:      params.PageToken,
	}

	bufferMiles := params.BufferMiles
	if bufferMiles <= 0 {
		bufferMiles = c.config.DefaultBufferMiles
	}

	if !geo.IsValidLocation(params.Location) {
		log.Printf("[places] invalid location %q, search is not restricted by area", params.Location)
		return body
	}

	buffer, ok := geo.CreateLocationBuffer(params.Location, bufferMiles)
	if !ok {
		log.Printf("[places] could not build buffer for %q, search is not restricted by area", params.Location)
		return body
	}
	body.LocationRestriction = &LocationRestriction{Rectangle: buffer}

	return body
}

// FetchFromUpstream runs a text search. Network failures, non-OK statuses and
// malformed bodies all produce an empty result instead of an error.
func (c *Client) FetchFromUpstream(ctx context.Context, params place.SearchParams) place.SearchResult {
	empty := place.SearchResult{Places: []place.RawPlace{}}

	payload, err := json.Marshal(c.PrepareRequestBody(params))
	if err != nil {
		log.Printf("[places] error marshaling search body: %v", err)
		return empty
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.withKey(c.config.SearchEndpoint, nil), bytes.NewReader(payload))
	if err != nil {
		log.Printf("[places] error creating search request: %v", err)
		return empty
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-FieldMask", "*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[places] search request failed: %v", err)
		return empty
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Printf("[places] error reading search response: %v", err)
		return empty
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[places] search returned status %d: %s", resp.StatusCode, truncate(raw, 300))
		return empty
	}

	var decoded searchResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Printf("[places] error decoding search response: %v", err)
		return empty
	}

	trimmed := bytes.TrimSpace(decoded.Places)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		log.Printf("[places] search response has no places array")
		return empty
	}

	var places []place.RawPlace
	if err := json.Unmarshal(trimmed, &places); err != nil {
		log.Printf("[places] error decoding places: %v", err)
		return empty
	}

	return place.SearchResult{
		Places:        places,
		Count:         len(places),
		CacheHit:      false,
		NextPageToken: decoded.NextPageToken,
	}
}

// withKey appends the API key and any extra query parameters to base
func (c *Client) withKey(base string, extra url.Values) string {
	params := url.Values{}
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	params.Set("key", c.config.APIKey)
	return base + "?" + params.Encode()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s...", b[:n])
}
