package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/mediastore"
	"github.com/mdulin/tandem/internal/models"
	"github.com/mdulin/tandem/internal/notifier"
	"github.com/mdulin/tandem/internal/roles"
)

type PartyHandler struct {
	store      *docstore.Store
	uploader   mediastore.Uploader
	notifier   notifier.Notifier
	principals *PrincipalResolver
}

func NewPartyHandler(store *docstore.Store, uploader mediastore.Uploader, n notifier.Notifier, principals *PrincipalResolver) *PartyHandler {
	return &PartyHandler{store: store, uploader: uploader, notifier: n, principals: principals}
}

func (h *PartyHandler) requireOwner(ctx context.Context, cookie string) (*Principal, error) {
	principal, err := h.principals.Resolve(ctx, cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage events")
	}
	return principal, nil
}

type ListEventsRequest struct {
	auth.AuthInput
}

type ListEventsResponse struct {
	Body struct {
		Events []models.PartyEvent `json:"events"`
	}
}

func (h *PartyHandler) HandleList(ctx context.Context, input *ListEventsRequest) (*ListEventsResponse, error) {
	if _, err := h.requireOwner(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var doc models.PartyDoc
	if err := h.store.Get(ctx, docstore.KeyParty, &doc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load events: " + err.Error())
	}

	res := &ListEventsResponse{}
	res.Body.Events = doc.Events
	return res, nil
}

type CreateEventRequest struct {
	auth.AuthInput
	Body struct {
		Title       string `json:"title" required:"true"`
		Date        string `json:"date" required:"true"`
		Location    string `json:"location,omitempty"`
		Description string `json:"description,omitempty"`
	}
}

type EventResponse struct {
	Body models.PartyEvent
}

func (h *PartyHandler) HandleCreate(ctx context.Context, input *CreateEventRequest) (*EventResponse, error) {
	if _, err := h.requireOwner(ctx, input.Cookie); err != nil {
		return nil, err
	}

	event := models.PartyEvent{
		ID:          uuid.NewString(),
		Title:       input.Body.Title,
		Date:        input.Body.Date,
		Location:    input.Body.Location,
		Description: input.Body.Description,
	}

	err := h.store.Update(ctx, docstore.KeyParty, func(raw []byte) (any, error) {
		var doc models.PartyDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		doc.Events = append(doc.Events, event)
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}

	return &EventResponse{Body: event}, nil
}

type UpdateEventRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Title       string `json:"title,omitempty"`
		Date        string `json:"date,omitempty"`
		Location    string `json:"location,omitempty"`
		Description string `json:"description,omitempty"`
	}
}

func (h *PartyHandler) HandleUpdate(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	if _, err := h.requireOwner(ctx, input.Cookie); err != nil {
		return nil, err
	}

	res := &EventResponse{}
	err := h.store.Update(ctx, docstore.KeyParty, func(raw []byte) (any, error) {
		var doc models.PartyDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		event := findEvent(&doc, input.ID)
		if event == nil {
			return nil, huma.Error404NotFound("Event not found")
		}
		if input.Body.Title != "" {
			event.Title = input.Body.Title
		}
		if input.Body.Date != "" {
			event.Date = input.Body.Date
		}
		if input.Body.Location != "" {
			event.Location = input.Body.Location
		}
		if input.Body.Description != "" {
			event.Description = input.Body.Description
		}
		res.Body = *event
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return res, nil
}

type DeleteEventRequest struct {
	auth.AuthInput
	ID string `path:"id"`
}

func (h *PartyHandler) HandleDelete(ctx context.Context, input *DeleteEventRequest) (*struct{}, error) {
	if _, err := h.requireOwner(ctx, input.Cookie); err != nil {
		return nil, err
	}

	err := h.store.Update(ctx, docstore.KeyParty, func(raw []byte) (any, error) {
		var doc models.PartyDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		for i := range doc.Events {
			if doc.Events[i].ID == input.ID {
				doc.Events = append(doc.Events[:i], doc.Events[i+1:]...)
				return &doc, nil
			}
		}
		return nil, huma.Error404NotFound("Event not found")
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return nil, nil
}

type AddPartyGuestRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Name  string `json:"name" required:"true"`
		Email string `json:"email,omitempty"`
	}
}

type AddPartyGuestResponse struct {
	Body struct {
		Guest    models.PartyGuest `json:"guest"`
		ShareURL string            `json:"share_url" doc:"Guest-facing RSVP link"`
	}
}

func (h *PartyHandler) HandleAddGuest(ctx context.Context, input *AddPartyGuestRequest) (*AddPartyGuestResponse, error) {
	if _, err := h.requireOwner(ctx, input.Cookie); err != nil {
		return nil, err
	}

	token, err := newGuestToken()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate guest token")
	}
	guest := models.PartyGuest{
		Name:  strings.TrimSpace(input.Body.Name),
		Email: strings.ToLower(strings.TrimSpace(input.Body.Email)),
		Token: token,
		RSVP:  models.RSVPPending,
	}
	if guest.Name == "" {
		return nil, huma.Error400BadRequest("Guest name is required")
	}

	res := &AddPartyGuestResponse{}
	err = h.store.Update(ctx, docstore.KeyParty, func(raw []byte) (any, error) {
		var doc models.PartyDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		event := findEvent(&doc, input.ID)
		if event == nil {
			return nil, huma.Error404NotFound("Event not found")
		}
		event.Guests = append(event.Guests, guest)
		res.Body.ShareURL = h.principals.cfg.FrontendURL + "/event/" + event.ID + "?t=" + guest.Token
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	res.Body.Guest = guest
	return res, nil
}

// --- public guest-facing RSVP page ---

// GuestView is the event as shown to one token-holding guest: no other
// guests' emails or tokens.
type GuestView struct {
	EventID     string            `json:"event_id"`
	Title       string            `json:"title"`
	Date        string            `json:"date"`
	Location    string            `json:"location,omitempty"`
	Description string            `json:"description,omitempty"`
	GuestName   string            `json:"guest_name"`
	RSVP        models.RSVPStatus `json:"rsvp"`
	Note        string            `json:"note,omitempty"`
}

type GuestViewRequest struct {
	EventID string `path:"eventID"`
	Token   string `query:"t" doc:"Guest token from the invite link"`
}

type GuestViewResponse struct {
	Body GuestView
}

// HandleGuestView serves /event/{eventID}?t=... — the token is the only
// access control here: an opaque stored string compared for exact
// equality.
func (h *PartyHandler) HandleGuestView(ctx context.Context, input *GuestViewRequest) (*GuestViewResponse, error) {
	event, guest, err := h.lookupGuest(ctx, input.EventID, input.Token)
	if err != nil {
		return nil, err
	}

	return &GuestViewResponse{Body: GuestView{
		EventID:     event.ID,
		Title:       event.Title,
		Date:        event.Date,
		Location:    event.Location,
		Description: event.Description,
		GuestName:   guest.Name,
		RSVP:        guest.RSVP,
		Note:        guest.Note,
	}}, nil
}

type SubmitRSVPRequest struct {
	EventID string `path:"eventID"`
	Token   string `query:"t"`
	Body    struct {
		RSVP models.RSVPStatus `json:"rsvp" enum:"yes,no" required:"true"`
		Note string            `json:"note,omitempty"`
	}
}

func (h *PartyHandler) HandleGuestRSVP(ctx context.Context, input *SubmitRSVPRequest) (*GuestViewResponse, error) {
	var view GuestView
	var savedEvent models.PartyEvent
	var savedGuest models.PartyGuest
	err := h.store.Update(ctx, docstore.KeyParty, func(raw []byte) (any, error) {
		var doc models.PartyDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		event := findEvent(&doc, input.EventID)
		if event == nil {
			return nil, huma.Error404NotFound("Event not found")
		}
		guest := findGuestByToken(event, input.Token)
		if guest == nil {
			return nil, huma.Error404NotFound("Event not found")
		}
		guest.RSVP = input.Body.RSVP
		guest.Note = input.Body.Note
		view = GuestView{
			EventID:     event.ID,
			Title:       event.Title,
			Date:        event.Date,
			Location:    event.Location,
			Description: event.Description,
			GuestName:   guest.Name,
			RSVP:        guest.RSVP,
			Note:        guest.Note,
		}
		savedEvent = *event
		savedGuest = *guest
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}

	// Notify only once the write has committed.
	if h.notifier != nil {
		if err := h.notifier.NotifyRSVP(savedEvent, savedGuest); err != nil {
			log.Printf("Failed to send RSVP notification: %v", err)
		}
	}
	return &GuestViewResponse{Body: view}, nil
}

// HandleUploadPhoto stores an event photo under events/<eventID>/.
func (h *PartyHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	principal, err := h.principals.Resolve(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if principal.Role.Level != roles.Owner {
		http.Error(w, "Only owners can upload photos", http.StatusForbidden)
		return
	}
	if h.uploader == nil {
		http.Error(w, "Media storage not configured", http.StatusServiceUnavailable)
		return
	}

	eventID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Missing photo field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := h.uploader.Upload(r.Context(), mediastore.PrefixEvents+"/"+eventID, header.Filename, file)
	if err != nil {
		http.Error(w, "Upload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	err = h.store.Update(r.Context(), docstore.KeyParty, func(raw []byte) (any, error) {
		var doc models.PartyDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		event := findEvent(&doc, eventID)
		if event == nil {
			return nil, huma.Error404NotFound("Event not found")
		}
		event.Photos = append(event.Photos, path)
		return &doc, nil
	})
	if err != nil {
		if _, ok := err.(huma.StatusError); ok {
			http.Error(w, "Event not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to save photo reference", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"path": path,
		"url":  h.uploader.DownloadURL(path),
	})
}

func (h *PartyHandler) lookupGuest(ctx context.Context, eventID, token string) (*models.PartyEvent, *models.PartyGuest, error) {
	var doc models.PartyDoc
	if err := h.store.Get(ctx, docstore.KeyParty, &doc); err != nil {
		return nil, nil, huma.Error500InternalServerError("Failed to load event: " + err.Error())
	}
	event := findEvent(&doc, eventID)
	if event == nil {
		return nil, nil, huma.Error404NotFound("Event not found")
	}
	guest := findGuestByToken(event, token)
	if guest == nil {
		// Same response for a bad token as for a missing event.
		return nil, nil, huma.Error404NotFound("Event not found")
	}
	return event, guest, nil
}

func findEvent(doc *models.PartyDoc, id string) *models.PartyEvent {
	for i := range doc.Events {
		if doc.Events[i].ID == id {
			return &doc.Events[i]
		}
	}
	return nil
}

func findGuestByToken(event *models.PartyEvent, token string) *models.PartyGuest {
	if token == "" {
		return nil
	}
	for i := range event.Guests {
		if event.Guests[i].Token == token {
			return &event.Guests[i]
		}
	}
	return nil
}

func newGuestToken() (string, error) {
	tokenBytes := make([]byte, 16)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}
