package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/NimbusVoIP/nimbus_api/internal/cache"
	"github.com/NimbusVoIP/nimbus_api/internal/config"
	"github.com/NimbusVoIP/nimbus_api/internal/database"
	"github.com/NimbusVoIP/nimbus_api/internal/handler"
	"github.com/NimbusVoIP/nimbus_api/internal/middleware"
	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/repository"
	"github.com/NimbusVoIP/nimbus_api/internal/service"
	"github.com/NimbusVoIP/nimbus_api/internal/worker"
)

// main is the application entrypoint for the Nimbus rating admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting nimbus rating api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	wizardCache := cache.NewWizardCache(redisClient, cfg.Wizard.DraftTTL)
	lookupCache := cache.NewLookupCache(redisClient)

	// 4. Initialize repositories
	planRepo := repository.NewPlanRepository(db)
	rateRepo := repository.NewRateRepository(db)
	zoneRepo := repository.NewZoneRepository(db)
	tcRepo := repository.NewTimeClassRepository(db)
	osRepo := repository.NewOriginSetRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 5. Initialize deck archive store (S3)
	deckStore, err := service.NewDeckStore(&cfg.Decks)
	if err != nil {
		log.Warn().Err(err).Msg("Deck store initialization failed - decks will import without archival")
	}

	// 6. Initialize services
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	planSvc := service.NewPlanService(planRepo, rateRepo, zoneRepo)
	rateSvc := service.NewRateService(rateRepo, planRepo)
	lookupSvc := service.NewLookupService(zoneRepo, lookupCache)
	wizardSvc := service.NewWizardService(wizardCache, planSvc)
	var archiver service.DeckArchiver
	if deckStore != nil {
		archiver = deckStore
	}
	deckSvc := service.NewDeckService(rateRepo, planRepo, archiver)

	// 7. Initialize handlers
	loginLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:       handler.NewHealthHandler(db, redisClient),
		Auth:         handler.NewAuthHandler(adminAuthSvc, loginLimiter),
		CustomerPlan: handler.NewPlanHandler(planSvc, models.PlanSideCustomer),
		SupplierPlan: handler.NewPlanHandler(planSvc, models.PlanSideSupplier),
		Wizard:       handler.NewWizardHandler(wizardSvc),
		Rate:         handler.NewRateHandler(rateSvc),
		Lookup:       handler.NewLookupHandler(lookupSvc),
		TimeClass:    handler.NewTimeClassHandler(tcRepo, rateRepo),
		OriginSet:    handler.NewOriginSetHandler(osRepo, rateRepo),
		Deck:         handler.NewDeckHandler(deckSvc),
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, middleware.NewJWTMiddleware())

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start workers
	go worker.NewRateSweepWorker(rateRepo, cfg.Worker.RateSweepInterval, cfg.Worker.RateSweepRetention).Start(ctx)
	go worker.NewLookupWarmWorker(lookupSvc, cfg.Worker.LookupWarmInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	CustomerPlan *handler.PlanHandler
	SupplierPlan *handler.PlanHandler
	Wizard       *handler.WizardHandler
	Rate         *handler.RateHandler
	Lookup       *handler.LookupHandler
	TimeClass    *handler.TimeClassHandler
	OriginSet    *handler.OriginSetHandler
	Deck         *handler.DeckHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		rating := admin.Group("/rating")

		// Plan-creation wizard
		rating.POST("/wizard/sessions", handlers.Wizard.OpenSession)
		rating.GET("/wizard/sessions/:id", handlers.Wizard.GetSession)
		rating.PUT("/wizard/sessions/:id/draft", handlers.Wizard.UpdateDraft)
		rating.POST("/wizard/sessions/:id/next", handlers.Wizard.Next)
		rating.POST("/wizard/sessions/:id/previous", handlers.Wizard.Previous)
		rating.DELETE("/wizard/sessions/:id", handlers.Wizard.CloseSession)

		// Customer plans
		rating.GET("/customer-plans", handlers.CustomerPlan.ListPlans)
		rating.POST("/customer-plans", handlers.CustomerPlan.CreatePlan)
		rating.GET("/customer-plans/:id", handlers.CustomerPlan.GetPlan)
		rating.PUT("/customer-plans/:id", handlers.CustomerPlan.UpdatePlan)
		rating.DELETE("/customer-plans/:id", handlers.CustomerPlan.DeletePlan)
		rating.GET("/customer-plans/:id/rates", handlers.Rate.ListRates)
		rating.POST("/customer-plans/:id/rates", handlers.Rate.AddRate)
		rating.POST("/customer-plans/:id/rates/view", handlers.Rate.ViewRates)
		rating.DELETE("/customer-plans/:id/rates/:rateId", handlers.Rate.DeleteRate)
		rating.PUT("/customer-plans/:id/rates/:rateId/block", handlers.Rate.BlockRate)
		rating.PUT("/customer-plans/:id/rates/:rateId/unblock", handlers.Rate.UnblockRate)

		// Supplier plans
		rating.GET("/supplier-plans", handlers.SupplierPlan.ListPlans)
		rating.POST("/supplier-plans", handlers.SupplierPlan.CreatePlan)
		rating.GET("/supplier-plans/:id", handlers.SupplierPlan.GetPlan)
		rating.PUT("/supplier-plans/:id", handlers.SupplierPlan.UpdatePlan)
		rating.DELETE("/supplier-plans/:id", handlers.SupplierPlan.DeletePlan)
		rating.GET("/supplier-plans/:id/rates", handlers.Rate.ListRates)
		rating.POST("/supplier-plans/:id/rates", handlers.Rate.AddRate)
		rating.POST("/supplier-plans/:id/rates/view", handlers.Rate.ViewRates)
		rating.DELETE("/supplier-plans/:id/rates/:rateId", handlers.Rate.DeleteRate)
		rating.PUT("/supplier-plans/:id/rates/:rateId/block", handlers.Rate.BlockRate)
		rating.PUT("/supplier-plans/:id/rates/:rateId/unblock", handlers.Rate.UnblockRate)

		// Rate decks
		rating.POST("/supplier-plans/:id/decks", handlers.Deck.ImportDeck)
		rating.GET("/supplier-plans/:id/decks/export", handlers.Deck.ExportDeck)

		// A-Z lookup
		rating.GET("/az-lookup/zones", handlers.Lookup.SearchZones)
		rating.GET("/az-lookup/codes", handlers.Lookup.CodesByZone)
		rating.GET("/az-lookup/zone-by-code", handlers.Lookup.ZoneByCode)

		// Time classes
		rating.GET("/time-classes", handlers.TimeClass.ListTimeClasses)
		rating.POST("/time-classes", handlers.TimeClass.CreateTimeClass)
		rating.DELETE("/time-classes/:id", handlers.TimeClass.DeleteTimeClass)

		// Origin sets
		rating.GET("/origin-sets", handlers.OriginSet.ListOriginSets)
		rating.POST("/origin-sets", handlers.OriginSet.CreateOriginSet)
		rating.DELETE("/origin-sets/:id", handlers.OriginSet.DeleteOriginSet)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
