package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codemart/codemart-api/internal/config"
	"github.com/codemart/codemart-api/internal/domain/auth"
	"github.com/codemart/codemart-api/internal/domain/credit"
	"github.com/codemart/codemart-api/internal/domain/order"
	"github.com/codemart/codemart-api/internal/domain/project"
	"github.com/codemart/codemart-api/internal/domain/roleupgrade"
	"github.com/codemart/codemart-api/internal/domain/user"
	"github.com/codemart/codemart-api/internal/middleware"
	"github.com/codemart/codemart-api/internal/pkg/database"
	"github.com/codemart/codemart-api/internal/pkg/jwt"
	"github.com/codemart/codemart-api/internal/pkg/logger"
	pkgresponse "github.com/codemart/codemart-api/internal/pkg/response"
	"github.com/codemart/codemart-api/internal/pkg/storage"
	"github.com/codemart/codemart-api/internal/realtime"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting CodeMart API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, realtime events are local-only")
		redis = nil
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	archiveStorage, err := storage.NewS3Storage(storage.S3Config{
		Endpoint:        cfg.StorageEndpoint,
		Region:          cfg.StorageRegion,
		AccessKeyID:     cfg.StorageAccessKey,
		AccessKeySecret: cfg.StorageSecretKey,
		BucketName:      cfg.StorageBucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create archive storage")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	creditConfigs := credit.NewConfigStore(db)
	projectRepo := project.NewRepository(db)
	orderRepo := order.NewRepository(db)
	upgradeRepo := roleupgrade.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := realtime.NewHub(redis)
	go hub.Run()

	// ---------- Services ----------
	creditService := credit.NewService(creditRepo, creditConfigs, hub)
	authService := auth.NewService(userRepo, jwtService, creditService)
	projectService := project.NewService(projectRepo, archiveStorage, creditService)
	orderService := order.NewService(
		orderRepo,
		&orderProjectAdapter{repo: projectRepo},
		creditService,
		archiveStorage,
		cfg.DownloadURLTTL,
	)
	upgradeService := roleupgrade.NewService(upgradeRepo, userRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	creditHandler := credit.NewHandler(creditService)
	projectHandler := project.NewHandler(projectService)
	orderHandler := order.NewHandler(orderService)
	upgradeHandler := roleupgrade.NewHandler(upgradeService)
	wsHandler := realtime.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)
	sellerMiddleware := middleware.RequireSeller()
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(wsHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/credits", creditHandler.Routes(authMiddleware))
		r.Mount("/projects", projectHandler.Routes(authMiddleware, sellerMiddleware))
		r.Mount("/orders", orderHandler.Routes(authMiddleware))
		r.Mount("/role-upgrades", upgradeHandler.Routes(authMiddleware))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/credits", creditHandler.AdminRoutes(authMiddleware, adminMiddleware))
		r.Mount("/role-upgrades", upgradeHandler.AdminRoutes(authMiddleware, adminMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	hub.Shutdown()

	log.Info().Msg("Server exited properly")
}

// Adapter implementations to bridge interface mismatches

// orderProjectAdapter adapts project.Repository to order.ProjectProvider,
// translating the project domain's not-found into the order domain's.
type orderProjectAdapter struct {
	repo project.Repository
}

func (a *orderProjectAdapter) GetProject(ctx context.Context, id uuid.UUID) (*order.ProjectInfo, error) {
	p, err := a.repo.GetByID(ctx, id)
	if errors.Is(err, project.ErrNotFound) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &order.ProjectInfo{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Price:       p.Price,
		Purchasable: p.IsPurchasable(),
		ArchiveKey:  p.ArchiveKey.String,
	}, nil
}
