package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"emojimap/internal/domain/place"
)

func TestPrepareRequestBody(t *testing.T) {
	c := NewClient(Config{APIKey: "k", DefaultPageSize: 20, MaxPageSize: 50})

	cases := []struct {
		name         string
		params       place.SearchParams
		pageSize     int
		openNow      bool
		restricted   bool
		rankPrefence string
	}{
		{"defaults", place.SearchParams{TextQuery: "pizza", Location: "40.71,-74.01"}, 20, false, true, "DISTANCE"},
		{"limit used", place.SearchParams{TextQuery: "pizza", Location: "40.71,-74.01", Limit: 7}, 7, false, true, "DISTANCE"},
		{"limit clamped", place.SearchParams{TextQuery: "pizza", Location: "40.71,-74.01", Limit: 500}, 50, false, true, "DISTANCE"},
		{"open now", place.SearchParams{TextQuery: "pizza", Location: "40.71,-74.01", OpenNow: true}, 20, true, true, "DISTANCE"},
		{"invalid location", place.SearchParams{TextQuery: "pizza", Location: "abc,def"}, 20, false, false, "DISTANCE"},
		{"empty location", place.SearchParams{TextQuery: "pizza"}, 20, false, false, "DISTANCE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := c.PrepareRequestBody(tc.params)
			if body.PageSize != tc.pageSize {
				t.Errorf("PageSize = %d; want %d", body.PageSize, tc.pageSize)
			}
			if body.OpenNow != tc.openNow {
				t.Errorf("OpenNow = %v; want %v", body.OpenNow, tc.openNow)
			}
			if (body.LocationRestriction != nil) != tc.restricted {
				t.Errorf("restricted = %v; want %v", body.LocationRestriction != nil, tc.restricted)
			}
			if body.RankPreference != tc.rankPrefence {
				t.Errorf("RankPreference = %q; want %q", body.RankPreference, tc.rankPrefence)
			}
		})
	}
}

func TestRequestBodyOmitsOpenNowWhenFalse(t *testing.T) {
	c := NewClient(Config{})
	raw, err := json.Marshal(c.PrepareRequestBody(place.SearchParams{TextQuery: "tea"}))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "openNow") {
		t.Errorf("body %s should not contain openNow", raw)
	}
	if strings.Contains(string(raw), "locationRestriction") {
		t.Errorf("body %s should not contain locationRestriction", raw)
	}
}

func TestFetchFromUpstream(t *testing.T) {
	var gotBody RequestBody
	var gotKey, gotMask string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotMask = r.Header.Get("X-Goog-FieldMask")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"places":[{"id":"p1","primaryType":"pizza","location":{"latitude":1,"longitude":2}},{"id":"p2"}],"nextPageToken":"next"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", SearchEndpoint: srv.URL})
	res := c.FetchFromUpstream(context.Background(), place.SearchParams{TextQuery: "pizza", Location: "1,2", Limit: 5, OpenNow: true})

	if gotKey != "secret" {
		t.Errorf("key = %q; want secret", gotKey)
	}
	if gotMask != "*" {
		t.Errorf("field mask = %q; want *", gotMask)
	}
	if gotBody.TextQuery != "pizza" || gotBody.PageSize != 5 || !gotBody.OpenNow || gotBody.LocationRestriction == nil {
		t.Errorf("unexpected request body %+v", gotBody)
	}
	if res.Count != 2 || len(res.Places) != 2 || res.CacheHit {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Places[0].ID != "p1" || res.Places[0].Location == nil || *res.Places[0].Location.Longitude != 2 {
		t.Errorf("first place decoded wrong: %+v", res.Places[0])
	}
	if res.NextPageToken != "next" {
		t.Errorf("NextPageToken = %q; want next", res.NextPageToken)
	}
}

func TestFetchFromUpstreamDegradesToEmpty(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"no places field", http.StatusOK, `{}`},
		{"places not an array", http.StatusOK, `{"places":{"id":"x"}}`},
		{"places null", http.StatusOK, `{"places":null}`},
		{"not json", http.StatusOK, `<html>`},
		{"server error", http.StatusInternalServerError, `{"places":[{"id":"x"}]}`},
		{"bad place entry", http.StatusOK, `{"places":[{"id":5}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := NewClient(Config{SearchEndpoint: srv.URL})
			res := c.FetchFromUpstream(context.Background(), place.SearchParams{TextQuery: "x"})
			if res.Count != 0 || len(res.Places) != 0 || res.Places == nil || res.CacheHit {
				t.Errorf("expected empty result, got %+v", res)
			}
		})
	}
}

func TestFetchFromUpstreamNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{SearchEndpoint: url})
	res := c.FetchFromUpstream(context.Background(), place.SearchParams{TextQuery: "x"})
	if res.Count != 0 || len(res.Places) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestFetchPhotoMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/places/good":
			if r.URL.Query().Get("fields") != "photos" {
				t.Errorf("fields = %q; want photos", r.URL.Query().Get("fields"))
			}
			io.WriteString(w, `{"photos":[{"name":"places/good/photos/1"},{"name":""},{"name":"places/good/photos/2"}]}`)
		case "/places/none":
			io.WriteString(w, `{"photos":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{DetailEndpoint: srv.URL})

	names, err := c.FetchPhotoMetadata(context.Background(), "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[1] != "places/good/photos/2" {
		t.Errorf("names = %v", names)
	}

	if _, err := c.FetchPhotoMetadata(context.Background(), " "); !errors.Is(err, ErrEmptyPlaceID) {
		t.Errorf("empty id error = %v; want ErrEmptyPlaceID", err)
	}
	if _, err := c.FetchPhotoMetadata(context.Background(), "none"); !errors.Is(err, ErrNoPhotos) {
		t.Errorf("no photos error = %v; want ErrNoPhotos", err)
	}

	var statusErr *StatusError
	if _, err := c.FetchPhotoMetadata(context.Background(), "missing"); !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("missing place error = %v; want 404 StatusError", err)
	}
}

func TestFetchPhoto(t *testing.T) {
	var gotHeight string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeight = r.URL.Query().Get("max_height_px")
		switch r.URL.Path {
		case "/places/a/photos/1/media":
			if r.URL.Query().Get("skipHttpRedirect") != "false" {
				t.Errorf("skipHttpRedirect = %q", r.URL.Query().Get("skipHttpRedirect"))
			}
			http.Redirect(w, r, "https://cdn.example.com/photo1.jpg", http.StatusFound)
		case "/places/a/photos/direct/media":
			io.WriteString(w, "jpegbytes")
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{MediaBase: srv.URL, DefaultPhotoHeight: 400, MaxPhotoHeight: 1000})

	u, err := c.FetchPhoto(context.Background(), "places/a/photos/1", 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.String() != "https://cdn.example.com/photo1.jpg" {
		t.Errorf("url = %s", u)
	}
	if gotHeight != "600" {
		t.Errorf("max_height_px = %s; want 600", gotHeight)
	}

	if _, err := c.FetchPhoto(context.Background(), "", 100); !errors.Is(err, ErrEmptyPhotoName) {
		t.Errorf("empty name error = %v", err)
	}
	if _, err := c.FetchPhoto(context.Background(), "places/a/photos/direct", 100); !errors.Is(err, ErrNoPhotoURL) {
		t.Errorf("direct body error = %v; want ErrNoPhotoURL", err)
	}
	if _, err := c.FetchPhoto(context.Background(), "places/a/photos/bad", 100); err == nil {
		t.Error("expected error for bad status")
	}
}

func TestClampPhotoHeight(t *testing.T) {
	c := NewClient(Config{DefaultPhotoHeight: 400, MaxPhotoHeight: 1000})

	cases := []struct {
		name      string
		requested float64
		expected  int
	}{
		{"within range", 600, 600},
		{"above configured max", 1200, 1000},
		{"zero uses default", 0, 400},
		{"negative uses default", -5, 400},
		{"above ceiling uses default", 5000, 400},
		{"nan uses default", math.NaN(), 400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.ClampPhotoHeight(tc.requested); got != tc.expected {
				t.Fatalf("ClampPhotoHeight(%v) = %d; want %d", tc.requested, got, tc.expected)
			}
		})
	}
}
