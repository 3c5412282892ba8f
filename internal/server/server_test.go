package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"emojimap/internal/config"
	"emojimap/internal/domain/place"
	"emojimap/internal/server/handlers"
)

type stubNearby struct{ calls int }

func (s *stubNearby) FetchNearbyPlaces(ctx context.Context, req place.NearbyRequest) (place.Envelope[place.SimplifiedPlace], error) {
	s.calls++
	return place.NewEnvelope[place.SimplifiedPlace](nil, false), nil
}

type stubPhotos struct{ id string }

func (s *stubPhotos) FetchPlacePhotos(ctx context.Context, req place.PhotoRequest) (place.Envelope[string], error) {
	s.id = req.ID
	return place.NewEnvelope([]string{"https://cdn.example.com/a.jpg"}, false), nil
}

func newTestServer(nearby *stubNearby, photos *stubPhotos) *Server {
	return NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 0, CorsOrigins: []string{"https://emojimap.example"}},
		nearby,
		photos,
		nil,
		handlers.PlacesConfig{DefaultLimit: 20, DefaultPhotoLimit: 5},
	)
}

func TestRoutes(t *testing.T) {
	nearby := &stubNearby{}
	photos := &stubPhotos{}
	h := newTestServer(nearby, photos).Handler()

	tests := []struct {
		path string
		want int
	}{
		{"/api/health", http.StatusOK},
		{"/api/v1/places/nearby?q=pizza&location=40.71,-74.01", http.StatusOK},
		{"/api/v1/places/nearby?q=pizza", http.StatusBadRequest},
		{"/api/v1/places/ChIJabc/photos", http.StatusOK},
		{"/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if nearby.calls != 1 {
		t.Errorf("nearby calls = %d, want 1", nearby.calls)
	}
	if photos.id != "ChIJabc" {
		t.Errorf("photo id = %q", photos.id)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(&stubNearby{}, &stubPhotos{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://emojimap.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://emojimap.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
