package main

import (
	"context"
	"net/http"
	"time"

	"github.com/cortexamp/api/config"
	"github.com/cortexamp/api/database"
	_ "github.com/cortexamp/api/docs" // Swagger docs - auto-generated
	adminctrl "github.com/cortexamp/api/internal/controller/admin"
	userctrl "github.com/cortexamp/api/internal/controller/user"
	"github.com/cortexamp/api/internal/logger"
	"github.com/cortexamp/api/internal/middleware"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/cortexamp/api/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title CortexAmp API
// @version 1.0
// @description Daily AI challenge platform: skill-leveled challenges, free-text submissions, rubric feedback, and an admin generation/review pipeline.
// @contact.name API Support
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewTrackRepository,
			repository.NewChallengeRepository,
			repository.NewSubmissionRepository,
			repository.NewFeedbackRepository,
			repository.NewProfileRepository,
			repository.NewProgressRepository,
			repository.NewAnalyticsRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewLLMService,
			service.NewAuthService,
			service.NewProgressService,
			service.NewChallengeService,
			service.NewReviewService,
			service.NewAnalyticsService,
			func(
				challengeRepo repository.ChallengeRepository,
				submissionRepo repository.SubmissionRepository,
				feedbackRepo repository.FeedbackRepository,
				progress service.ProgressService,
				llm service.LLMService,
				cfg *config.Config,
			) service.FeedbackService {
				return service.NewFeedbackService(challengeRepo, submissionRepo, feedbackRepo, progress, llm, cfg.AI.Enabled)
			},
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminChallengeController,
			adminctrl.NewAdminAnalyticsController,
			userctrl.NewAuthController,
			userctrl.NewChallengeController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(MigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Zerolog-backed request log instead of Gin's default writer.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	profileRepo repository.ProfileRepository,
	adminChallengeCtrl *adminctrl.AdminChallengeController,
	adminAnalyticsCtrl *adminctrl.AdminAnalyticsController,
	authCtrl *userctrl.AuthController,
	challengeCtrl *userctrl.ChallengeController,
) {
	api := router.Group("/api/v1")

	// Public routes
	api.POST("/auth/signup", authCtrl.Signup)
	api.POST("/auth/login", authCtrl.Login)
	api.GET("/tracks", challengeCtrl.ListTracks)

	// Authenticated user routes
	authed := api.Group("")
	authed.Use(middleware.Auth(cfg))
	{
		authed.GET("/profile", authCtrl.GetProfile)
		authed.PUT("/profile", authCtrl.UpdateProfile)
		authed.GET("/challenges/today", challengeCtrl.GetTodayChallenge)
		authed.GET("/challenges/:id", challengeCtrl.GetChallenge)
		authed.POST("/feedback", challengeCtrl.SubmitFeedback)
		authed.GET("/history", challengeCtrl.GetHistory)
		authed.GET("/progress", challengeCtrl.GetProgress)
	}

	// Admin routes: role re-checked against the stored profile on every call.
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(cfg), middleware.RequireAdmin(profileRepo))
	{
		admin.POST("/challenges/generate", adminChallengeCtrl.GenerateChallenges)
		admin.POST("/challenges", adminChallengeCtrl.SaveChallenge)
		admin.GET("/challenges", adminChallengeCtrl.ListChallenges)
		admin.POST("/feedback/reconcile", adminChallengeCtrl.ReconcileFeedback)
		admin.POST("/tracks", adminChallengeCtrl.CreateTrack)
		admin.GET("/tracks", adminChallengeCtrl.ListTracks)
		admin.GET("/analytics", adminAnalyticsCtrl.Dashboard)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("CortexAmp API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// MigrateDB creates the schema and the analytics views on startup.
func MigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Track{},
		&model.Challenge{},
		&model.Profile{},
		&model.Submission{},
		&model.Feedback{},
		&model.UserProgress{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	if err := database.CreateAnalyticsViews(db); err != nil {
		log.Error().Err(err).Msg("Analytics view creation failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
