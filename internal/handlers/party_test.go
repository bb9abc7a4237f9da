package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/models"
)

func seedBirthday(t *testing.T, env *testEnv) {
	t.Helper()
	env.seedParty(t, models.PartyDoc{
		Events: []models.PartyEvent{{
			ID:       "bday-40",
			Title:    "Adam's 40th",
			Date:     "2026-10-17",
			Location: "Backyard",
			Guests: []models.PartyGuest{
				{Name: "Kate Dulin", Email: "kate.dulin@gmail.com", Token: "tok-kate", RSVP: models.RSVPYes, Note: "Bringing cake"},
				{Name: "Joe Harmon", Token: "tok-joe", RSVP: models.RSVPPending},
			},
		}},
	})
}

func TestPartyEvents_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	seedBirthday(t, env)
	handler := NewPartyHandler(env.store, nil, nil, env.principals)
	ctx := context.Background()

	t.Run("CompanionCannotList", func(t *testing.T) {
		req := &ListEventsRequest{}
		req.Cookie = env.cookieFor(t, models.CompanionRoster[0].Email)
		_, err := handler.HandleList(ctx, req)
		if status := statusOf(t, err); status != 403 {
			t.Errorf("expected 403, got %d", status)
		}
	})

	t.Run("OwnerListsWithGuests", func(t *testing.T) {
		req := &ListEventsRequest{}
		req.Cookie = env.cookieFor(t, "mdulin@example.com")
		res, err := handler.HandleList(ctx, req)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(res.Body.Events) != 1 || len(res.Body.Events[0].Guests) != 2 {
			t.Errorf("unexpected events: %+v", res.Body.Events)
		}
	})

	t.Run("OwnerCreateUpdateDelete", func(t *testing.T) {
		cookie := env.cookieFor(t, "adulin@example.com")

		create := &CreateEventRequest{}
		create.Cookie = cookie
		create.Body.Title = "New Year's"
		create.Body.Date = "2026-12-31"
		created, err := handler.HandleCreate(ctx, create)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.Body.ID == "" {
			t.Fatal("expected a generated event id")
		}

		update := &UpdateEventRequest{ID: created.Body.ID}
		update.Cookie = cookie
		update.Body.Location = "Rooftop"
		updated, err := handler.HandleUpdate(ctx, update)
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Body.Location != "Rooftop" || updated.Body.Title != "New Year's" {
			t.Errorf("unexpected event: %+v", updated.Body)
		}

		del := &DeleteEventRequest{ID: created.Body.ID}
		del.Cookie = cookie
		if _, err := handler.HandleDelete(ctx, del); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		var doc models.PartyDoc
		if err := env.store.Get(ctx, docstore.KeyParty, &doc); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if findEvent(&doc, created.Body.ID) != nil {
			t.Error("event should be gone")
		}
	})
}

func TestGuestRSVP_NoNotificationWhenWriteFails(t *testing.T) {
	env := newTestEnv(t)
	seedBirthday(t, env)
	captured := &recordingNotifier{}
	handler := NewPartyHandler(env.store, nil, captured, env.principals)
	ctx := context.Background()

	// Refuse every update to the documents table so the RSVP write fails
	// after the guest lookup succeeds.
	if err := env.db.Exec(`CREATE TRIGGER refuse_doc_writes BEFORE UPDATE ON documents
		BEGIN SELECT RAISE(ABORT, 'write refused'); END`).Error; err != nil {
		t.Fatalf("failed to install trigger: %v", err)
	}

	req := &SubmitRSVPRequest{EventID: "bday-40", Token: "tok-joe"}
	req.Body.RSVP = models.RSVPYes
	_, err := handler.HandleGuestRSVP(ctx, req)
	if status := statusOf(t, err); status != 500 {
		t.Fatalf("expected 500 from the refused write, got %d", status)
	}

	if len(captured.rsvpMessages) != 0 {
		t.Errorf("notification fired (%v) even though nothing was persisted", captured.rsvpMessages)
	}

	var doc models.PartyDoc
	if err := env.store.Get(ctx, docstore.KeyParty, &doc); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	joe := findGuestByToken(findEvent(&doc, "bday-40"), "tok-joe")
	if joe == nil || joe.RSVP != models.RSVPPending {
		t.Errorf("stored RSVP should still be pending, got %+v", joe)
	}
}

func TestPartyAddGuest(t *testing.T) {
	env := newTestEnv(t)
	seedBirthday(t, env)
	handler := NewPartyHandler(env.store, nil, nil, env.principals)
	ctx := context.Background()

	req := &AddPartyGuestRequest{ID: "bday-40"}
	req.Cookie = env.cookieFor(t, "mdulin@example.com")
	req.Body.Name = "  Priya Raman  "
	req.Body.Email = "Priya.Raman@Outlook.com"
	res, err := handler.HandleAddGuest(ctx, req)
	if err != nil {
		t.Fatalf("add guest failed: %v", err)
	}

	guest := res.Body.Guest
	if guest.Name != "Priya Raman" {
		t.Errorf("expected trimmed name, got %q", guest.Name)
	}
	if guest.Email != "priya.raman@outlook.com" {
		t.Errorf("expected lowercased email, got %q", guest.Email)
	}
	if guest.RSVP != models.RSVPPending {
		t.Errorf("new guests start pending, got %q", guest.RSVP)
	}
	if len(guest.Token) != 32 {
		t.Errorf("expected a 32-char hex token, got %q", guest.Token)
	}
	wantURL := "http://127.0.0.1:4000/event/bday-40?t=" + guest.Token
	if res.Body.ShareURL != wantURL {
		t.Errorf("share url = %q, want %q", res.Body.ShareURL, wantURL)
	}

	var doc models.PartyDoc
	if err := env.store.Get(ctx, docstore.KeyParty, &doc); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	event := findEvent(&doc, "bday-40")
	if event == nil || len(event.Guests) != 3 {
		t.Fatalf("expected 3 persisted guests, got %+v", event)
	}

	t.Run("MissingEvent404", func(t *testing.T) {
		missing := &AddPartyGuestRequest{ID: "nope"}
		missing.Cookie = env.cookieFor(t, "adulin@example.com")
		missing.Body.Name = "Nobody"
		_, err := handler.HandleAddGuest(ctx, missing)
		if status := statusOf(t, err); status != 404 {
			t.Errorf("expected 404, got %d", status)
		}
	})
}

func TestGuestViewAndRSVP(t *testing.T) {
	env := newTestEnv(t)
	seedBirthday(t, env)
	handler := NewPartyHandler(env.store, nil, nil, env.principals)
	ctx := context.Background()

	t.Run("ValidToken", func(t *testing.T) {
		res, err := handler.HandleGuestView(ctx, &GuestViewRequest{EventID: "bday-40", Token: "tok-joe"})
		if err != nil {
			t.Fatalf("guest view failed: %v", err)
		}
		if res.Body.GuestName != "Joe Harmon" || res.Body.RSVP != models.RSVPPending {
			t.Errorf("unexpected view: %+v", res.Body)
		}
	})

	t.Run("ViewNeverLeaksOtherGuests", func(t *testing.T) {
		res, err := handler.HandleGuestView(ctx, &GuestViewRequest{EventID: "bday-40", Token: "tok-joe"})
		if err != nil {
			t.Fatalf("guest view failed: %v", err)
		}
		if strings.Contains(res.Body.Note, "cake") || res.Body.GuestName == "Kate Dulin" {
			t.Errorf("view leaked another guest's data: %+v", res.Body)
		}
	})

	t.Run("BadTokenLooksLikeMissingEvent", func(t *testing.T) {
		_, tokenErr := handler.HandleGuestView(ctx, &GuestViewRequest{EventID: "bday-40", Token: "wrong"})
		_, eventErr := handler.HandleGuestView(ctx, &GuestViewRequest{EventID: "nope", Token: "tok-joe"})
		if statusOf(t, tokenErr) != 404 || statusOf(t, eventErr) != 404 {
			t.Error("both failures should be 404")
		}
		if tokenErr.Error() != eventErr.Error() {
			t.Errorf("bad token (%q) must be indistinguishable from missing event (%q)", tokenErr, eventErr)
		}
	})

	t.Run("EmptyTokenRejected", func(t *testing.T) {
		_, err := handler.HandleGuestView(ctx, &GuestViewRequest{EventID: "bday-40"})
		if status := statusOf(t, err); status != 404 {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("RSVPPersists", func(t *testing.T) {
		req := &SubmitRSVPRequest{EventID: "bday-40", Token: "tok-joe"}
		req.Body.RSVP = models.RSVPYes
		req.Body.Note = "Wouldn't miss it"
		res, err := handler.HandleGuestRSVP(ctx, req)
		if err != nil {
			t.Fatalf("rsvp failed: %v", err)
		}
		if res.Body.RSVP != models.RSVPYes || res.Body.Note != "Wouldn't miss it" {
			t.Errorf("unexpected view: %+v", res.Body)
		}

		var doc models.PartyDoc
		if err := env.store.Get(ctx, docstore.KeyParty, &doc); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		event := findEvent(&doc, "bday-40")
		joe := findGuestByToken(event, "tok-joe")
		if joe == nil || joe.RSVP != models.RSVPYes || joe.Note != "Wouldn't miss it" {
			t.Errorf("persisted guest: %+v", joe)
		}
		kate := findGuestByToken(event, "tok-kate")
		if kate == nil || kate.RSVP != models.RSVPYes || kate.Note != "Bringing cake" {
			t.Errorf("other guests must be untouched: %+v", kate)
		}
	})

	t.Run("RSVPNotifiesAfterCommit", func(t *testing.T) {
		captured := &recordingNotifier{}
		notifying := NewPartyHandler(env.store, nil, captured, env.principals)
		req := &SubmitRSVPRequest{EventID: "bday-40", Token: "tok-kate"}
		req.Body.RSVP = models.RSVPNo
		if _, err := notifying.HandleGuestRSVP(ctx, req); err != nil {
			t.Fatalf("rsvp failed: %v", err)
		}
		if len(captured.rsvpMessages) != 1 || captured.rsvpMessages[0] != "Kate Dulin -> no" {
			t.Errorf("expected one notification for the saved RSVP, got %v", captured.rsvpMessages)
		}
	})

	t.Run("RSVPBadToken404", func(t *testing.T) {
		req := &SubmitRSVPRequest{EventID: "bday-40", Token: "wrong"}
		req.Body.RSVP = models.RSVPNo
		_, err := handler.HandleGuestRSVP(ctx, req)
		if status := statusOf(t, err); status != 404 {
			t.Errorf("expected 404, got %d", status)
		}
	})
}
