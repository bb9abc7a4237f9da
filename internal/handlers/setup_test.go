package handlers

import (
	"context"
	"testing"

	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/config"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	store      *docstore.Store
	auth       *auth.AuthHandler
	principals *PrincipalResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.User{}, &models.Document{})

	cfg := &config.Config{
		JWTSecret:           "test-secret",
		OwnerEmailFragments: []string{"mdulin", "adulin"},
		FrontendURL:         "http://127.0.0.1:4000",
	}
	store := docstore.New(db)
	authHandler := auth.NewAuthHandler(cfg, db)
	return &testEnv{
		db:         db,
		store:      store,
		auth:       authHandler,
		principals: NewPrincipalResolver(cfg, db, store, authHandler),
	}
}

// cookieFor creates a signed-in user with the given email and returns
// their session cookie header.
func (e *testEnv) cookieFor(t *testing.T, email string) string {
	t.Helper()
	user := models.User{GoogleID: "g-" + email, Username: email, Email: email}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := e.auth.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "auth_token=" + token
}

func (e *testEnv) seedTrips(t *testing.T, doc models.TripsDoc) {
	t.Helper()
	if err := e.store.Replace(context.Background(), docstore.KeyTrips, &doc); err != nil {
		t.Fatalf("failed to seed trips doc: %v", err)
	}
}

func (e *testEnv) seedParty(t *testing.T, doc models.PartyDoc) {
	t.Helper()
	if err := e.store.Replace(context.Background(), docstore.KeyParty, &doc); err != nil {
		t.Fatalf("failed to seed party doc: %v", err)
	}
}
