package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	// Load .env BEFORE importing the function package
	_ "github.com/joho/godotenv/autoload"

	// Blank-import the function package so the init() runs
	_ "github.com/Abepena/nj-stars-sub000"

	emulatorAuth "github.com/Abepena/nj-stars-sub000/internal/auth"
	"github.com/Abepena/nj-stars-sub000/internal/config"
	"github.com/Abepena/nj-stars-sub000/internal/repository"
	"github.com/Abepena/nj-stars-sub000/internal/service"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
)

// main starts the Functions Framework server, only needed when running locally.
func main() {
	port := "5000"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}

	// Ensure the local viewer exists in the Auth Emulator so tokens verify.
	if os.Getenv("FIREBASE_AUTH_EMULATOR_HOST") != "" {
		go createLocalViewer()
	}

	// The cron refresher keeps the Redis snapshot warm between requests. In
	// the deployed function the TTL alone does that job.
	if stop := startLocalRefresher(); stop != nil {
		defer stop()
	}

	slog.Info("server starting", "url", "http://127.0.0.1:"+port)
	slog.Info("swagger ui", "url", "http://127.0.0.1:"+port+"/swagger/index.html")

	if err := funcframework.StartHostPort(hostname, port); err != nil {
		slog.Error("funcframework.StartHostPort failed", "error", err)
		os.Exit(1)
	}
}

func startLocalRefresher() func() {
	cfg, err := config.Load()
	if err != nil || cfg.RefreshCron == "" {
		return nil
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = emulatorAuth.DefaultProjectID
	}

	fsClient, err := firestore.NewClientWithDatabase(context.Background(), projectID, cfg.DatabaseID)
	if err != nil {
		slog.Warn("refresher disabled, no firestore client", "error", err)
		return nil
	}

	catalog := service.NewCatalogService(
		repository.NewEventRepository(fsClient),
		repository.NewRegistrationRepository(fsClient),
	)
	refresher, err := service.StartRefresher(cfg.RefreshCron, catalog)
	if err != nil {
		slog.Warn("refresher disabled, bad cron spec", "spec", cfg.RefreshCron, "error", err)
		return nil
	}
	slog.Info("snapshot refresher started", "spec", cfg.RefreshCron)
	return refresher.Stop
}

func createLocalViewer() {
	// Give the server/emulator a split second to settle
	time.Sleep(1 * time.Second)

	ctx := context.Background()
	viewerUID := os.Getenv("LOCAL_VIEWER_UID")
	if viewerUID == "" {
		slog.Warn("skipping local viewer creation, LOCAL_VIEWER_UID not set")
		return
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = emulatorAuth.DefaultProjectID
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		slog.Warn("viewer setup failed to init firebase app", "error", err)
		return
	}

	client, err := app.Auth(ctx)
	if err != nil {
		slog.Warn("viewer setup failed to get auth client", "error", err)
		return
	}

	if u, err := client.GetUser(ctx, viewerUID); err == nil {
		slog.Info("local viewer already exists", "name", u.DisplayName, "uid", viewerUID)
	} else {
		params := (&auth.UserToCreate{}).
			UID(viewerUID).
			Email("viewer@localhost.com").
			EmailVerified(true).
			Password("viewer123").
			DisplayName("Local Viewer")

		if _, err := client.CreateUser(ctx, params); err != nil {
			slog.Warn("failed to create local viewer, emulator might be down", "error", err)
			return
		}
		slog.Info("created local viewer", "uid", viewerUID)
	}

	token := emulatorAuth.GenerateEmulatorToken(projectID, viewerUID)
	slog.Info("viewer token for Swagger Authorize", "token", "Bearer "+token)
}
