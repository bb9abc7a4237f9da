package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/models"
	"github.com/mdulin/tandem/internal/roles"
)

type CompanionHandler struct {
	principals *PrincipalResolver
}

func NewCompanionHandler(principals *PrincipalResolver) *CompanionHandler {
	return &CompanionHandler{principals: principals}
}

type ListCompanionsRequest struct {
	auth.AuthInput
}

type ListCompanionsResponse struct {
	Body struct {
		Companions []models.Companion `json:"companions"`
	}
}

func (h *CompanionHandler) HandleList(ctx context.Context, input *ListCompanionsRequest) (*ListCompanionsResponse, error) {
	principal, err := h.principals.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if principal.Role.Level != roles.Owner && principal.Role.Level != roles.Companion {
		return nil, huma.Error403Forbidden("The companion roster is not visible to guests")
	}

	res := &ListCompanionsResponse{}
	res.Body.Companions = models.CompanionRoster
	return res, nil
}
