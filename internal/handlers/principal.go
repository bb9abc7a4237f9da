package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/config"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/models"
	"github.com/mdulin/tandem/internal/roles"
	"gorm.io/gorm"
)

// Principal is the signed-in user plus their freshly resolved role.
type Principal struct {
	User models.User
	Role roles.Descriptor
}

// PrincipalResolver turns a session cookie into a Principal. The role is
// recomputed from the live trips document on every call rather than
// cached, because guest invites can land after sign-in.
type PrincipalResolver struct {
	cfg   *config.Config
	db    *gorm.DB
	store *docstore.Store
	auth  *auth.AuthHandler
}

func NewPrincipalResolver(cfg *config.Config, db *gorm.DB, store *docstore.Store, authHandler *auth.AuthHandler) *PrincipalResolver {
	return &PrincipalResolver{cfg: cfg, db: db, store: store, auth: authHandler}
}

func (p *PrincipalResolver) Resolve(ctx context.Context, cookieHeader string) (*Principal, error) {
	userID, err := p.auth.Authorize(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	var doc models.TripsDoc
	if err := p.store.Get(ctx, docstore.KeyTrips, &doc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load trips: " + err.Error())
	}

	role := roles.Resolve(user.Email, p.cfg.OwnerEmailFragments, models.CompanionRoster, doc.Trips)
	return &Principal{User: user, Role: role}, nil
}

type MeRequest struct {
	auth.AuthInput
}

type MeResponse struct {
	Body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar,omitempty"`
		Role     string `json:"role"`
	}
}

func (p *PrincipalResolver) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	principal, err := p.Resolve(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	res := &MeResponse{}
	res.Body.Username = principal.User.Username
	res.Body.Email = principal.User.Email
	res.Body.Avatar = principal.User.Avatar
	res.Body.Role = principal.Role.Level.String()
	return res, nil
}
