package handlers

import (
	"context"
	"testing"

	"github.com/mdulin/tandem/internal/models"
)

func TestHandleMe(t *testing.T) {
	env := newTestEnv(t)
	env.seedTrips(t, models.TripsDoc{
		Trips: []models.Trip{{ID: "trip-1", Destination: "Kyoto", Guests: []models.GuestInvite{
			{Email: "rando@example.com", Permission: models.PermissionView},
		}}},
	})
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		wantRole string
	}{
		{"Owner", "mdulin@example.com", "owner"},
		{"Companion", models.CompanionRoster[3].Email, "companion"},
		{"Guest", "rando@example.com", "guest"},
		{"Unknown", "stranger@example.com", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &MeRequest{}
			req.Cookie = env.cookieFor(t, tc.email)
			res, err := env.principals.HandleMe(ctx, req)
			if err != nil {
				t.Fatalf("me failed: %v", err)
			}
			if res.Body.Role != tc.wantRole {
				t.Errorf("role = %q, want %q", res.Body.Role, tc.wantRole)
			}
			if res.Body.Email != tc.email {
				t.Errorf("email = %q, want %q", res.Body.Email, tc.email)
			}
		})
	}

	t.Run("Unauthenticated", func(t *testing.T) {
		req := &MeRequest{}
		_, err := env.principals.HandleMe(ctx, req)
		if status := statusOf(t, err); status != 401 {
			t.Errorf("expected 401, got %d", status)
		}
	})
}
