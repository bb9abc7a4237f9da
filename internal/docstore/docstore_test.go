package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/mdulin/tandem/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.Document{})
	return New(db)
}

func TestGet_MissingKeyYieldsZeroDoc(t *testing.T) {
	store := newTestStore(t)

	var doc models.TripsDoc
	if err := store.Get(context.Background(), KeyTrips, &doc); err != nil {
		t.Fatalf("Get on missing key returned error: %v", err)
	}
	if len(doc.Trips) != 0 || len(doc.OpenDates) != 0 {
		t.Errorf("expected zero doc, got %+v", doc)
	}
}

func TestReplaceAndGetRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := models.TripsDoc{
		Trips: []models.Trip{{ID: "trip-a", Destination: "Lisbon"}},
	}
	if err := store.Replace(ctx, KeyTrips, &in); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	var out models.TripsDoc
	if err := store.Get(ctx, KeyTrips, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(out.Trips) != 1 || out.Trips[0].Destination != "Lisbon" {
		t.Errorf("roundtrip mismatch: %+v", out)
	}
}

func TestReplace_LastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := models.TripsDoc{Trips: []models.Trip{{ID: "trip-a"}, {ID: "trip-b"}}}
	second := models.TripsDoc{Trips: []models.Trip{{ID: "trip-c"}}}

	if err := store.Replace(ctx, KeyTrips, &first); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}
	if err := store.Replace(ctx, KeyTrips, &second); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}

	var out models.TripsDoc
	if err := store.Get(ctx, KeyTrips, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(out.Trips) != 1 || out.Trips[0].ID != "trip-c" {
		t.Errorf("expected second write to fully replace the first, got %+v", out)
	}

	// Only one record should exist per key.
	var count int64
	store.db.Model(&models.Document{}).Where("key = ?", KeyTrips).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 document row, got %d", count)
	}
}

func TestUpdate_ReadModifyWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := models.TripsDoc{Trips: []models.Trip{{ID: "trip-a", Destination: "Lisbon"}}}
	if err := store.Replace(ctx, KeyTrips, &seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	err := store.Update(ctx, KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := Decode(raw, &doc); err != nil {
			return nil, err
		}
		doc.Trips = append(doc.Trips, models.Trip{ID: "trip-b", Destination: "Kyoto"})
		return &doc, nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var out models.TripsDoc
	if err := store.Get(ctx, KeyTrips, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(out.Trips) != 2 {
		t.Fatalf("expected 2 trips after update, got %d", len(out.Trips))
	}
	if out.Trips[0].ID != "trip-a" || out.Trips[1].ID != "trip-b" {
		t.Errorf("unexpected trips after update: %+v", out.Trips)
	}
}

func TestUpdate_ApplyErrorLeavesDocumentUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := models.TripsDoc{Trips: []models.Trip{{ID: "trip-a"}}}
	if err := store.Replace(ctx, KeyTrips, &seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	wantErr := context.DeadlineExceeded // any sentinel will do
	err := store.Update(ctx, KeyTrips, func(raw []byte) (any, error) {
		return nil, wantErr
	})
	if err != wantErr {
		t.Fatalf("expected apply error to surface, got %v", err)
	}

	var out models.TripsDoc
	if err := store.Get(ctx, KeyTrips, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(out.Trips) != 1 || out.Trips[0].ID != "trip-a" {
		t.Errorf("document changed despite apply error: %+v", out)
	}
}

func TestSubscribe_SnapshotsPerWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := models.PartyDoc{Events: []models.PartyEvent{{ID: "ev-1", Title: "Housewarming"}}}
	if err := store.Replace(ctx, KeyParty, &seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	ch, cancel := store.Subscribe(KeyParty)
	defer cancel()

	// Current snapshot arrives immediately on subscribe.
	var doc models.PartyDoc
	select {
	case raw := <-ch:
		if err := Decode(raw, &doc); err != nil {
			t.Fatalf("decode initial snapshot: %v", err)
		}
		if len(doc.Events) != 1 {
			t.Fatalf("expected 1 event in initial snapshot, got %d", len(doc.Events))
		}
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot delivered")
	}

	updated := models.PartyDoc{Events: []models.PartyEvent{{ID: "ev-1"}, {ID: "ev-2"}}}
	if err := store.Replace(ctx, KeyParty, &updated); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	select {
	case raw := <-ch:
		var next models.PartyDoc
		if err := Decode(raw, &next); err != nil {
			t.Fatalf("decode write snapshot: %v", err)
		}
		if len(next.Events) != 2 {
			t.Errorf("expected 2 events in write snapshot, got %d", len(next.Events))
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered after write")
	}

	cancel()
	if _, ok := <-ch; ok {
		// channel may still hold buffered snapshots; drain until closed
		for range ch {
		}
	}
}
