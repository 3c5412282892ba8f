// internal/server/handlers/places.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"emojimap/internal/adapter/google"
	"emojimap/internal/domain/place"
	"emojimap/internal/service/geo"
	"emojimap/internal/service/nearby"
)

// KeyFunc builds the nearby cache key for a location
type KeyFunc func(location string) (string, bool)

// PlacesConfig holds request defaults
type PlacesConfig struct {
	DefaultLimit      int
	DefaultPhotoLimit int

	// CacheableQuery is the only keyword list whose nearby results are
	// cached. Empty disables nearby caching.
	CacheableQuery string
}

// PlacesHandler handles nearby search and photo requests
type PlacesHandler struct {
	nearby         place.NearbyService
	photos         place.PhotoService
	nearbyKey      KeyFunc
	cacheableQuery string
	config         PlacesConfig
}

// NewPlacesHandler creates a new places handler. A nil nearbyKey disables
// caching of nearby searches.
func NewPlacesHandler(nearby place.NearbyService, photos place.PhotoService, nearbyKey KeyFunc, config PlacesConfig) *PlacesHandler {
	return &PlacesHandler{
		nearby:         nearby,
		photos:         photos,
		nearbyKey:      nearbyKey,
		cacheableQuery: normalizeQuery(config.CacheableQuery),
		config:         config,
	}
}

// GetNearby returns emoji-tagged places around a location
func (h *PlacesHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	textQuery := strings.TrimSpace(query.Get("q"))
	if textQuery == "" {
		respondWithError(w, http.StatusBadRequest, "Missing query parameter q", nil)
		return
	}

	location := strings.TrimSpace(query.Get("location"))
	if !geo.IsValidLocation(location) {
		respondWithError(w, http.StatusBadRequest, "Invalid location, expected lat,lng", nil)
		return
	}

	limit, err := intParam(query.Get("limit"), h.config.DefaultLimit)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	radius := 0.0
	if s := query.Get("radius"); s != "" {
		radius, err = strconv.ParseFloat(s, 64)
		if err != nil || radius < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid radius", err)
			return
		}
	}

	openNow, err := boolParam(query.Get("openNow"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid openNow", err)
		return
	}

	bypassCache, err := boolParam(query.Get("bypassCache"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid bypassCache", err)
		return
	}

	req := place.NearbyRequest{
		TextQuery:   textQuery,
		Location:    location,
		OpenNow:     openNow,
		Limit:       limit,
		RadiusMiles: radius,
		BypassCache: bypassCache,
		PageToken:   strings.TrimSpace(query.Get("pageToken")),
	}
	if h.cacheable(req) {
		req.CacheKey, _ = h.nearbyKey(location)
	}

	env, err := h.nearby.FetchNearbyPlaces(r.Context(), req)
	if err != nil {
		respondWithError(w, statusFor(err), "Failed to fetch nearby places", err)
		return
	}

	respondWithJSON(w, http.StatusOK, env)
}

// GetPhotos returns photo URLs for a place
func (h *PlacesHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing place ID", nil)
		return
	}

	query := r.URL.Query()

	limit, err := intParam(query.Get("limit"), h.config.DefaultPhotoLimit)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	bypassCache, err := boolParam(query.Get("bypassCache"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid bypassCache", err)
		return
	}

	env, err := h.photos.FetchPlacePhotos(r.Context(), place.PhotoRequest{
		ID:          id,
		Limit:       limit,
		BypassCache: bypassCache,
	})
	switch {
	case errors.Is(err, google.ErrEmptyPlaceID):
		respondWithError(w, http.StatusBadRequest, "Missing place ID", nil)
		return
	case errors.Is(err, google.ErrNoPhotos):
		respondWithError(w, http.StatusNotFound, "No photos found for place", nil)
		return
	case err != nil:
		respondWithError(w, statusFor(err), "Failed to fetch place photos", err)
		return
	}

	respondWithJSON(w, http.StatusOK, env)
}

// cacheable reports whether a cached entry keyed by location alone can answer
// req. Entries are only shared by open-at-any-time searches for the
// configured keyword list.
func (h *PlacesHandler) cacheable(req place.NearbyRequest) bool {
	if h.nearbyKey == nil || h.cacheableQuery == "" || req.OpenNow {
		return false
	}
	return normalizeQuery(req.TextQuery) == h.cacheableQuery
}

func normalizeQuery(q string) string {
	return strings.Join(nearby.ParseKeywords(q), "|")
}

func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func intParam(s string, defaultValue int) (int, error) {
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func boolParam(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
