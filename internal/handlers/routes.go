package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/config"
)

func RegisterRoutes(
	r *chi.Mux,
	cfg *config.Config,
	authHandler *auth.AuthHandler,
	principals *PrincipalResolver,
	trips *TripHandler,
	openDates *OpenDateHandler,
	companions *CompanionHandler,
	trainingHandler *TrainingHandler,
	memories *MemoryHandler,
	party *PartyHandler,
	stream *StreamHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(corsMiddleware(cfg.FrontendURL))
	}

	// Initialize Huma API
	humaConfig := huma.DefaultConfig("Tandem API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, humaConfig)

	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/google/login", authHandler.HandleLogin)
	r.Get("/auth/google/callback", authHandler.HandleCallback)

	huma.Get(api, "/me", principals.HandleMe, secured)

	// Trips
	huma.Get(api, "/trips", trips.HandleList, secured)
	huma.Post(api, "/trips", trips.HandleCreate, secured)
	huma.Put(api, "/trips/{id}", trips.HandleUpdate, secured)
	huma.Delete(api, "/trips/{id}", trips.HandleDelete, secured)
	huma.Post(api, "/trips/{id}/guests", trips.HandleAddGuest, secured)
	huma.Put(api, "/trips/{id}/guests", trips.HandleSetGuestPermission, secured)
	huma.Delete(api, "/trips/{id}/guests/{email}", trips.HandleRemoveGuest, secured)

	// Open travel dates
	huma.Get(api, "/open-dates", openDates.HandleList, secured)
	huma.Post(api, "/open-dates", openDates.HandleCreate, secured)
	huma.Put(api, "/open-dates/{id}", openDates.HandleUpdate, secured)
	huma.Delete(api, "/open-dates/{id}", openDates.HandleDelete, secured)
	huma.Post(api, "/open-dates/{id}/visibility", openDates.HandleToggleVisibility, secured)

	// Companion roster
	huma.Get(api, "/companions", companions.HandleList, secured)

	// Training plans
	huma.Get(api, "/training", trainingHandler.HandleListPlans, secured)
	huma.Get(api, "/training/{eventID}", trainingHandler.HandleGetPlan, secured)
	huma.Post(api, "/training/{eventID}/completion", trainingHandler.HandleRecordCompletion, secured)
	huma.Post(api, "/training/{eventID}/weeks/{weekNumber}/notes", trainingHandler.HandleWeekNotes, secured)

	// Memories
	huma.Get(api, "/memories", memories.HandleList, secured)
	huma.Post(api, "/memories", memories.HandleCreate, secured)

	// Party events (owner-facing)
	huma.Get(api, "/party/events", party.HandleList, secured)
	huma.Post(api, "/party/events", party.HandleCreate, secured)
	huma.Put(api, "/party/events/{id}", party.HandleUpdate, secured)
	huma.Delete(api, "/party/events/{id}", party.HandleDelete, secured)
	huma.Post(api, "/party/events/{id}/guests", party.HandleAddGuest, secured)

	// Guest-facing RSVP page, gated by the invite token only
	huma.Get(api, "/event/{eventID}", party.HandleGuestView)
	huma.Post(api, "/event/{eventID}/rsvp", party.HandleGuestRSVP)

	// Multipart uploads and the SSE stream bypass huma's typed inputs
	r.Group(func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)
		r.Post("/memories/{id}/photos", memories.HandleUploadPhoto)
		r.Post("/party/events/{id}/photos", party.HandleUploadPhoto)
		r.Get("/trips/stream", stream.HandleTripsStream)
	})
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
