package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mdulin/tandem/internal/models"
)

func TestTripsStream(t *testing.T) {
	env := newTestEnv(t)
	env.seedTrips(t, models.TripsDoc{
		Trips: []models.Trip{{ID: "trip-a", Destination: "Lisbon"}},
	})
	handler := NewStreamHandler(env.store, env.principals)

	ctx, cancelReq := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/trips/stream", nil).WithContext(ctx)
	req.Header.Set("Cookie", env.cookieFor(t, "mdulin@example.com"))
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.HandleTripsStream(rec, req)
		close(done)
	}()

	// Let the subscription register, then write a new snapshot.
	time.Sleep(100 * time.Millisecond)
	env.seedTrips(t, models.TripsDoc{
		Trips: []models.Trip{{ID: "trip-a", Destination: "Lisbon"}, {ID: "trip-b", Destination: "Kyoto"}},
	})
	time.Sleep(100 * time.Millisecond)
	cancelReq()
	<-done

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	first := strings.Index(body, "Lisbon")
	second := strings.Index(body, "Kyoto")
	if first < 0 {
		t.Fatal("initial snapshot missing from stream")
	}
	if second < 0 {
		t.Fatal("write snapshot missing from stream")
	}
	if second < first {
		t.Error("write snapshot arrived before the initial one")
	}
}

func TestTripsStream_AccessControl(t *testing.T) {
	env := newTestEnv(t)
	env.seedTrips(t, models.TripsDoc{
		Trips: []models.Trip{{ID: "trip-a", Guests: []models.GuestInvite{
			{Email: "rando@example.com", Permission: models.PermissionView},
		}}},
	})
	handler := NewStreamHandler(env.store, env.principals)

	t.Run("NoCookie401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/trips/stream", nil)
		rec := httptest.NewRecorder()
		handler.HandleTripsStream(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("GuestForbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/trips/stream", nil)
		req.Header.Set("Cookie", env.cookieFor(t, "rando@example.com"))
		rec := httptest.NewRecorder()
		handler.HandleTripsStream(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}
