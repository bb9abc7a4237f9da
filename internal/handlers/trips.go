package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/models"
	"github.com/mdulin/tandem/internal/roles"
)

type TripHandler struct {
	store      *docstore.Store
	principals *PrincipalResolver
}

func NewTripHandler(store *docstore.Store, principals *PrincipalResolver) *TripHandler {
	return &TripHandler{store: store, principals: principals}
}

type ListTripsRequest struct {
	auth.AuthInput
}

type ListTripsResponse struct {
	Body struct {
		Trips    []models.Trip `json:"trips"`
		Wishlist []models.Trip `json:"wishlist,omitempty"`
	}
}

func (h *TripHandler) HandleList(ctx context.Context, input *ListTripsRequest) (*ListTripsResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var doc models.TripsDoc
	if err := h.store.Get(ctx, docstore.KeyTrips, &doc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load trips: " + err.Error())
	}

	res := &ListTripsResponse{}
	res.Body.Trips = roles.VisibleTrips(principal.Role, doc.Trips)
	// The wishlist has no guest lists, so only owners and companions see it.
	if principal.Role.Level == roles.Owner || principal.Role.Level == roles.Companion {
		res.Body.Wishlist = doc.Wishlist
	}
	return res, nil
}

type CreateTripRequest struct {
	auth.AuthInput
	Body struct {
		Destination string            `json:"destination" required:"true" doc:"Where the trip goes"`
		Dates       *models.DateRange `json:"dates,omitempty" doc:"Omit for wishlist entries"`
		Notes       string            `json:"notes,omitempty"`
	}
}

type TripResponse struct {
	Body models.Trip
}

func (h *TripHandler) HandleCreate(ctx context.Context, input *CreateTripRequest) (*TripResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can create trips")
	}

	trip := models.Trip{
		ID:          uuid.NewString(),
		Destination: input.Body.Destination,
		Dates:       input.Body.Dates,
		Notes:       input.Body.Notes,
	}

	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		if trip.Dates == nil {
			doc.Wishlist = append(doc.Wishlist, trip)
		} else {
			doc.Trips = append(doc.Trips, trip)
		}
		return &doc, nil
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to save trip: " + err.Error())
	}

	return &TripResponse{Body: trip}, nil
}

type UpdateTripRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Destination string            `json:"destination,omitempty"`
		Dates       *models.DateRange `json:"dates,omitempty"`
		Notes       *string           `json:"notes,omitempty" doc:"Omit to keep, empty string to clear"`
		CoverImage  string            `json:"cover_image,omitempty"`
	}
}

func (h *TripHandler) HandleUpdate(ctx context.Context, input *UpdateTripRequest) (*TripResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if !roles.CanEdit(principal.Role, input.ID) {
		return nil, huma.Error403Forbidden("You don't have edit access to this trip")
	}

	var updated models.Trip
	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		trip := findTrip(&doc, input.ID)
		if trip == nil {
			return nil, huma.Error404NotFound("Trip not found")
		}
		if input.Body.Destination != "" {
			trip.Destination = input.Body.Destination
		}
		if input.Body.Dates != nil {
			trip.Dates = input.Body.Dates
		}
		if input.Body.Notes != nil {
			trip.Notes = *input.Body.Notes
		}
		if input.Body.CoverImage != "" {
			trip.CoverImage = input.Body.CoverImage
		}
		updated = *trip
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}

	return &TripResponse{Body: updated}, nil
}

type DeleteTripRequest struct {
	auth.AuthInput
	ID string `path:"id"`
}

func (h *TripHandler) HandleDelete(ctx context.Context, input *DeleteTripRequest) (*struct{}, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if !roles.CanDelete(principal.Role, input.ID) {
		return nil, huma.Error403Forbidden("Only owners can delete trips")
	}

	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		trips, ok := removeTrip(doc.Trips, input.ID)
		if ok {
			doc.Trips = trips
			return &doc, nil
		}
		wishlist, ok := removeTrip(doc.Wishlist, input.ID)
		if ok {
			doc.Wishlist = wishlist
			return &doc, nil
		}
		return nil, huma.Error404NotFound("Trip not found")
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}

	return nil, nil
}

type AddGuestRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Email      string            `json:"email" required:"true"`
		Permission models.Permission `json:"permission" enum:"edit,view" required:"true"`
	}
}

type GuestListResponse struct {
	Body struct {
		Guests []models.GuestInvite `json:"guests"`
	}
}

func (h *TripHandler) HandleAddGuest(ctx context.Context, input *AddGuestRequest) (*GuestListResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage guests")
	}

	email := strings.ToLower(strings.TrimSpace(input.Body.Email))
	if email == "" {
		return nil, huma.Error400BadRequest("Guest email is required")
	}

	res := &GuestListResponse{}
	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		trip := findTrip(&doc, input.ID)
		if trip == nil {
			return nil, huma.Error404NotFound("Trip not found")
		}
		for _, g := range trip.Guests {
			if g.Email == email {
				return nil, huma.Error409Conflict("Guest already invited to this trip")
			}
		}
		trip.Guests = append(trip.Guests, models.GuestInvite{
			Email:      email,
			Permission: input.Body.Permission,
			AddedBy:    principal.User.Email,
		})
		res.Body.Guests = trip.Guests
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return res, nil
}

type SetGuestPermissionRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Email      string            `json:"email" required:"true"`
		Permission models.Permission `json:"permission" enum:"edit,view" required:"true"`
	}
}

func (h *TripHandler) HandleSetGuestPermission(ctx context.Context, input *SetGuestPermissionRequest) (*GuestListResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage guests")
	}

	email := strings.ToLower(strings.TrimSpace(input.Body.Email))
	res := &GuestListResponse{}
	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		trip := findTrip(&doc, input.ID)
		if trip == nil {
			return nil, huma.Error404NotFound("Trip not found")
		}
		for i := range trip.Guests {
			if trip.Guests[i].Email == email {
				trip.Guests[i].Permission = input.Body.Permission
				res.Body.Guests = trip.Guests
				return &doc, nil
			}
		}
		return nil, huma.Error404NotFound("Guest not found on this trip")
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return res, nil
}

type RemoveGuestRequest struct {
	auth.AuthInput
	ID    string `path:"id"`
	Email string `path:"email"`
}

func (h *TripHandler) HandleRemoveGuest(ctx context.Context, input *RemoveGuestRequest) (*struct{}, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage guests")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		trip := findTrip(&doc, input.ID)
		if trip == nil {
			return nil, huma.Error404NotFound("Trip not found")
		}
		kept := trip.Guests[:0]
		removed := false
		for _, g := range trip.Guests {
			if g.Email == email {
				removed = true
				continue
			}
			kept = append(kept, g)
		}
		if !removed {
			return nil, huma.Error404NotFound("Guest not found on this trip")
		}
		trip.Guests = kept
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return nil, nil
}

func findTrip(doc *models.TripsDoc, id string) *models.Trip {
	for i := range doc.Trips {
		if doc.Trips[i].ID == id {
			return &doc.Trips[i]
		}
	}
	for i := range doc.Wishlist {
		if doc.Wishlist[i].ID == id {
			return &doc.Wishlist[i]
		}
	}
	return nil
}

func removeTrip(trips []models.Trip, id string) ([]models.Trip, bool) {
	for i := range trips {
		if trips[i].ID == id {
			return append(trips[:i], trips[i+1:]...), true
		}
	}
	return trips, false
}

// wrapStoreError passes huma status errors through and wraps everything
// else as a 500 from the store.
func wrapStoreError(err error) error {
	if _, ok := err.(huma.StatusError); ok {
		return err
	}
	return huma.Error500InternalServerError("Failed to save changes: " + err.Error())
}
