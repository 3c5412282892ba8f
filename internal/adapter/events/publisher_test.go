package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"emojimap/internal/domain/place"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return f.err
}

func TestPublishSearch(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, Config{})

	p.PublishSearch(context.Background(), place.SearchEvent{
		TextQuery: "pizza",
		CacheKey:  "places:v2:40.71,-74.01",
		Count:     3,
		Stats:     &place.FilterStatistics{NoKeywordMatch: 1},
	})

	if len(conn.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(conn.msgs))
	}
	if conn.msgs[0].subject != "places.search.completed" {
		t.Errorf("subject = %q", conn.msgs[0].subject)
	}

	var got place.SearchEvent
	if err := json.Unmarshal(conn.msgs[0].data, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID == "" {
		t.Error("expected an event id")
	}
	if got.Count != 3 || got.Stats == nil || got.Stats.NoKeywordMatch != 1 {
		t.Errorf("unexpected event: %+v", got)
	}
	if got.Time.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestPublishPhotosSubjectPrefix(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, Config{SubjectPrefix: "emojimap"})

	p.PublishPhotos(context.Background(), place.PhotosEvent{PlaceID: "abc", Count: 2, Failed: 1})

	if len(conn.msgs) != 1 || conn.msgs[0].subject != "emojimap.photos.fetched" {
		t.Fatalf("unexpected messages: %+v", conn.msgs)
	}
}

func TestPublishFailuresAreSwallowed(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	p := NewPublisher(conn, Config{})

	p.PublishSearch(context.Background(), place.SearchEvent{})
	p.PublishPhotos(context.Background(), place.PhotosEvent{})

	if len(conn.msgs) != 2 {
		t.Errorf("expected both publish attempts, got %d", len(conn.msgs))
	}
}

func TestNilConnIsNoop(t *testing.T) {
	p := NewPublisher(nil, Config{})
	p.PublishSearch(context.Background(), place.SearchEvent{})
	p.PublishPhotos(context.Background(), place.PhotosEvent{})
}
