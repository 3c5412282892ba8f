// internal/adapter/google/photos.go

package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// photoHeightCeiling is the largest max_height_px the media endpoint accepts
const photoHeightCeiling = 4800

// Photo pipeline errors
var (
	ErrEmptyPlaceID   = errors.New("place id is required")
	ErrEmptyPhotoName = errors.New("photo name is required")
	ErrNoPhotos       = errors.New("no photos found for place")
	ErrNoPhotoURL     = errors.New("no photo url resolved")
)

// StatusError reports a non-OK upstream response
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Op, e.StatusCode)
}

type photoMetadataResponse struct {
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

// FetchPhotoMetadata returns the photo names attached to a place
func (c *Client) FetchPhotoMetadata(ctx context.Context, placeID string) ([]string, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrEmptyPlaceID
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.config.DetailEndpoint, "/") + "/places/" + url.PathEscape(placeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(endpoint, url.Values{"fields": {"photos"}}), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating photo metadata request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "photo metadata", StatusCode: resp.StatusCode}
	}

	var decoded photoMetadataResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding photo metadata: %w", err)
	}

	names := make([]string, 0, len(decoded.Photos))
	for _, p := range decoded.Photos {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("place %s: %w", placeID, ErrNoPhotos)
	}

	return names, nil
}

// ClampPhotoHeight turns a requested height into a value the media endpoint
// accepts. Non-finite, non-positive or out-of-range values use the default.
func (c *Client) ClampPhotoHeight(requested float64) int {
	if math.IsNaN(requested) || math.IsInf(requested, 0) || requested <= 0 || requested > photoHeightCeiling {
		requested = float64(c.config.DefaultPhotoHeight)
	}

	height := int(requested)
	if height > c.config.MaxPhotoHeight {
		height = c.config.MaxPhotoHeight
	}
	if height < 1 {
		height = 1
	}
	return height
}

// FetchPhoto resolves a photo name to the media URL the upstream redirects to
func (c *Client) FetchPhoto(ctx context.Context, photoName string, maxHeight float64) (*url.URL, error) {
	photoName = strings.Trim(strings.TrimSpace(photoName), "/")
	if photoName == "" {
		return nil, ErrEmptyPhotoName
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.config.MediaBase, "/") + "/" + photoName + "/media"
	params := url.Values{
		"max_height_px":    {strconv.Itoa(c.ClampPhotoHeight(maxHeight))},
		"skipHttpRedirect": {"false"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withKey(endpoint, params), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating photo request: %w", err)
	}

	resp, err := c.mediaClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		location, err := resp.Location()
		if err != nil {
			return nil, fmt.Errorf("photo %s: %w", photoName, ErrNoPhotoURL)
		}
		return location, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// A direct body means no redirect target to hand out.
		return nil, fmt.Errorf("photo %s: %w", photoName, ErrNoPhotoURL)
	default:
		return nil, &StatusError{Op: "photo media", StatusCode: resp.StatusCode}
	}
}
