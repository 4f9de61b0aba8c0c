package function

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Abepena/nj-stars-sub000/internal/auth"
	"github.com/Abepena/nj-stars-sub000/internal/config"
	"github.com/Abepena/nj-stars-sub000/internal/repository"
	"github.com/Abepena/nj-stars-sub000/internal/service"
	"github.com/Abepena/nj-stars-sub000/internal/transport"
	"github.com/Abepena/nj-stars-sub000/internal/view"

	_ "github.com/Abepena/nj-stars-sub000/docs"
)

// @title NJ Stars Event Discovery API
// @version 1.0
// @description Filtered event views, month calendar grids, map markers, and
// @description highlight navigation sessions for the club's event catalogue.

// @host 127.0.0.1:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		// Cloud Functions usually auto-detect it; this is the local fallback.
		projectID = auth.DefaultProjectID
	}

	fsClient, err := firestore.NewClientWithDatabase(ctx, projectID, cfg.DatabaseID)
	if err != nil {
		slog.Error("failed to create firestore client", "error", err)
		os.Exit(1)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		slog.Error("failed to initialize firebase app", "error", err)
		os.Exit(1)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		slog.Error("failed to get auth client", "error", err)
		os.Exit(1)
	}

	// The view pipeline recomputes from the full snapshot on every read, so
	// the snapshot fetch goes through Redis when one is configured.
	var eventRepo repository.EventRepository = repository.NewEventRepository(fsClient)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ttl := time.Duration(cfg.SnapshotTTL) * time.Second
		eventRepo = repository.NewCachedEventRepository(eventRepo, rdb, ttl)
		slog.Info("snapshot cache enabled", "addr", cfg.RedisAddr, "ttl", ttl)
	}
	registrationRepo := repository.NewRegistrationRepository(fsClient)

	catalogSvc := service.NewCatalogService(eventRepo, registrationRepo)
	registrationSvc := service.NewRegistrationService(registrationRepo, eventRepo)

	viewOpts := transport.ViewOptions{
		Location:   cfg.Location(),
		WeekStart:  cfg.WeekStartDay(),
		DisplayCap: cfg.DayDisplayCap,
		Precision:  cfg.ClusterPrecision,
		Fit:        view.DefaultFitOptions,
		Timings: view.Timings{
			Slide:   cfg.Slide(),
			Pulse:   cfg.Pulse(),
			Hold:    cfg.Hold(),
			Stagger: cfg.Stagger(),
		},
	}

	router := transport.NewRouter(
		transport.NewViewHandler(catalogSvc, viewOpts),
		transport.NewSessionHandler(catalogSvc, viewOpts),
		transport.NewRegistrationHandler(registrationSvc),
	)

	isProduction := cfg.AppEnv == "production"

	functions.HTTP("ViewEngine", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/swagger/") {
			httpSwagger.Handler(httpSwagger.DeepLinking(false))(w, r)
			return
		}

		// Middleware chain: CORS -> Security Headers -> Auth -> Compression -> Router
		handler := transport.WithCompression(router)
		handler = transport.WithAuthProtection(handler, authClient, cfg.PublicRead)
		handler = transport.WithSecurityHeaders(handler, isProduction)
		handler = transport.WithCORS(handler, cfg.CORSOrigin)

		handler.ServeHTTP(w, r)
	})
}
