package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/mdulin/tandem/internal/auth"
	"github.com/mdulin/tandem/internal/config"
	"github.com/mdulin/tandem/internal/database"
	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/handlers"
	"github.com/mdulin/tandem/internal/mediastore"
	"github.com/mdulin/tandem/internal/notifier"
	"github.com/mdulin/tandem/internal/training"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)
	store := docstore.New(db)

	// Discord notifier is optional; the app runs without it.
	var discordNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			discordNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Media storage is optional too; uploads 503 until it's configured.
	var uploader mediastore.Uploader
	if gcs, err := storage.NewClient(context.Background()); err != nil {
		log.Printf("Media store not initialized: %v", err)
	} else {
		uploader = mediastore.NewGCSUploader(gcs, cfg.MediaBucket)
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	principals := handlers.NewPrincipalResolver(cfg, db, store, authHandler)
	tripHandler := handlers.NewTripHandler(store, principals)
	openDateHandler := handlers.NewOpenDateHandler(store, principals)
	companionHandler := handlers.NewCompanionHandler(principals)
	trainingHandler := handlers.NewTrainingHandler(store, training.NewRecorder(store), discordNotifier, principals)
	memoryHandler := handlers.NewMemoryHandler(store, uploader, principals)
	partyHandler := handlers.NewPartyHandler(store, uploader, discordNotifier, principals)
	streamHandler := handlers.NewStreamHandler(store, principals)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, authHandler, principals, tripHandler, openDateHandler, companionHandler, trainingHandler, memoryHandler, partyHandler, streamHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
