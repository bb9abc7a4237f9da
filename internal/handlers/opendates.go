package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/models"
	"github.com/mdulin/tandem/internal/roles"
)

type OpenDateHandler struct {
	store      *docstore.Store
	principals *PrincipalResolver
}

func NewOpenDateHandler(store *docstore.Store, principals *PrincipalResolver) *OpenDateHandler {
	return &OpenDateHandler{store: store, principals: principals}
}

type ListOpenDatesRequest struct {
	auth.AuthInput
}

type ListOpenDatesResponse struct {
	Body struct {
		OpenDates []models.OpenDate `json:"open_dates"`
	}
}

func (h *OpenDateHandler) HandleList(ctx context.Context, input *ListOpenDatesRequest) (*ListOpenDatesResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var doc models.TripsDoc
	if err := h.store.Get(ctx, docstore.KeyTrips, &doc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load open dates: " + err.Error())
	}

	res := &ListOpenDatesResponse{}
	res.Body.OpenDates = roles.VisibleOpenDates(principal.Role, doc.OpenDates)
	return res, nil
}

type CreateOpenDateRequest struct {
	auth.AuthInput
	Body struct {
		Start     string   `json:"start" required:"true"`
		End       string   `json:"end" required:"true"`
		Note      string   `json:"note,omitempty"`
		VisibleTo []string `json:"visible_to,omitempty" doc:"Companion ids, or [\"all\"]; defaults to all"`
	}
}

type OpenDateResponse struct {
	Body models.OpenDate
}

func (h *OpenDateHandler) HandleCreate(ctx context.Context, input *CreateOpenDateRequest) (*OpenDateResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage open dates")
	}

	visibleTo := input.Body.VisibleTo
	// Never persist an empty visibility list.
	if len(visibleTo) == 0 {
		visibleTo = []string{models.VisibleToAll}
	}
	openDate := models.OpenDate{
		ID:        uuid.NewString(),
		Start:     input.Body.Start,
		End:       input.Body.End,
		Note:      input.Body.Note,
		VisibleTo: visibleTo,
	}

	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		doc.OpenDates = append(doc.OpenDates, openDate)
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}

	return &OpenDateResponse{Body: openDate}, nil
}

type UpdateOpenDateRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		Start string  `json:"start,omitempty"`
		End   string  `json:"end,omitempty"`
		Note  *string `json:"note,omitempty" doc:"Omit to keep, empty string to clear"`
	}
}

func (h *OpenDateHandler) HandleUpdate(ctx context.Context, input *UpdateOpenDateRequest) (*OpenDateResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage open dates")
	}

	res := &OpenDateResponse{}
	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		od := findOpenDate(&doc, input.ID)
		if od == nil {
			return nil, huma.Error404NotFound("Open date not found")
		}
		if input.Body.Start != "" {
			od.Start = input.Body.Start
		}
		if input.Body.End != "" {
			od.End = input.Body.End
		}
		if input.Body.Note != nil {
			od.Note = *input.Body.Note
		}
		res.Body = *od
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return res, nil
}

type DeleteOpenDateRequest struct {
	auth.AuthInput
	ID string `path:"id"`
}

func (h *OpenDateHandler) HandleDelete(ctx context.Context, input *DeleteOpenDateRequest) (*struct{}, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage open dates")
	}

	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		for i := range doc.OpenDates {
			if doc.OpenDates[i].ID == input.ID {
				doc.OpenDates = append(doc.OpenDates[:i], doc.OpenDates[i+1:]...)
				return &doc, nil
			}
		}
		return nil, huma.Error404NotFound("Open date not found")
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return nil, nil
}

type ToggleOpenDateVisibilityRequest struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		CompanionID string `json:"companion_id" required:"true"`
	}
}

func (h *OpenDateHandler) HandleToggleVisibility(ctx context.Context, input *ToggleOpenDateVisibilityRequest) (*OpenDateResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner {
		return nil, huma.Error403Forbidden("Only owners can manage open dates")
	}

	if !onRoster(input.Body.CompanionID) {
		return nil, huma.Error404NotFound("No such companion")
	}

	res := &OpenDateResponse{}
	err = h.store.Update(ctx, docstore.KeyTrips, func(raw []byte) (any, error) {
		var doc models.TripsDoc
		if err := docstore.Decode(raw, &doc); err != nil {
			return nil, err
		}
		od := findOpenDate(&doc, input.ID)
		if od == nil {
			return nil, huma.Error404NotFound("Open date not found")
		}
		od.ToggleVisibility(input.Body.CompanionID, models.CompanionRoster)
		res.Body = *od
		return &doc, nil
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return res, nil
}

func findOpenDate(doc *models.TripsDoc, id string) *models.OpenDate {
	for i := range doc.OpenDates {
		if doc.OpenDates[i].ID == id {
			return &doc.OpenDates[i]
		}
	}
	return nil
}

func onRoster(companionID string) bool {
	for _, c := range models.CompanionRoster {
		if c.ID == companionID {
			return true
		}
	}
	return false
}
