package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"neurohub/backend/internal/catalog"
	"neurohub/backend/internal/config"
	"neurohub/backend/internal/database"
	"neurohub/backend/internal/feed"
	"neurohub/backend/internal/games"
	"neurohub/backend/internal/handlers"
	"neurohub/backend/internal/identity"
	"neurohub/backend/internal/mailer"
	"neurohub/backend/internal/realtime"
	"neurohub/backend/internal/records"
	"neurohub/backend/internal/reminders"
	"neurohub/backend/internal/storage"
	"neurohub/backend/internal/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

// rectifyKey repairs the escaped newlines most deployment dashboards
// introduce when a service account key is pasted as a single-line env var.
func rectifyKey(keyData string) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(keyData), &parsed); err != nil {
		return nil, err
	}
	if pk, ok := parsed["private_key"].(string); ok {
		parsed["private_key"] = strings.ReplaceAll(pk, "\\n", "\n")
	}
	return json.Marshal(parsed)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB
	mongoClient, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	store := records.NewStore(mongoClient, cfg.DBName)

	// Firebase: auth for identity, the realtime database for the feed.
	keyJSON, err := rectifyKey(cfg.KeyData)
	if err != nil {
		log.Fatalf("Failed to parse service account key: %v", err)
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.DatabaseURL}, option.WithCredentialsJSON(keyJSON))
	if err != nil {
		log.Fatalf("Failed to initialize Firebase app: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to get Auth client: %v", err)
	}
	dbClient, err := app.Database(ctx)
	if err != nil {
		log.Fatalf("Failed to get Database client: %v", err)
	}
	verifier := identity.NewProvider(authClient)

	// Google Drive holds post media.
	drive, err := storage.NewDriveStore(ctx, cfg.DriveCredentials, cfg.DriveFolderID)
	if err != nil {
		log.Fatalf("Failed to initialize Drive storage: %v", err)
	}

	hub := realtime.NewHub()
	defer hub.Close()

	feedSvc := feed.NewService(feed.NewRTDB(dbClient), hub, drive, cfg.FeedLimit)
	taskSvc := tasks.NewService(store)
	catalogSvc := catalog.NewService(store)
	manager := games.NewManager()
	defer manager.Close()

	// Reminder dispatch runs alongside the server.
	var mail reminders.Mailer = mailer.LogMailer{}
	if cfg.EmailEndpoint != "" {
		mail = mailer.NewClient(cfg.EmailEndpoint)
	}
	worker := reminders.NewWorker(store, mail, verifier)
	go worker.Run(ctx)

	router := gin.Default()
	handlers.Register(router, handlers.Deps{
		Verifier:   verifier,
		Feed:       handlers.NewFeedHandler(feedSvc),
		Stream:     handlers.NewStreamHandler(feedSvc),
		Profile:    handlers.NewProfileHandler(feedSvc, store),
		Tasks:      handlers.NewTaskHandler(taskSvc),
		Assessment: handlers.NewAssessmentHandler(store, catalogSvc),
		Catalog:    handlers.NewCatalogHandler(catalogSvc),
		Games:      handlers.NewGameHandler(manager, store),
		Contact:    handlers.NewContactHandler(store),
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.Printf("Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
