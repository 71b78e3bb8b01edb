package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/examhall/config"
	"github.com/lshigami/examhall/database"
	_ "github.com/lshigami/examhall/docs"
	"github.com/lshigami/examhall/internal/auth"
	adminctrl "github.com/lshigami/examhall/internal/controller/admin"
	userctrl "github.com/lshigami/examhall/internal/controller/user"
	"github.com/lshigami/examhall/internal/event"
	"github.com/lshigami/examhall/internal/logger"
	"github.com/lshigami/examhall/internal/metrics"
	"github.com/lshigami/examhall/internal/middleware"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/lshigami/examhall/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Exam Hall API
// @version 1.0
// @description Timed multiple-choice exams: sessions, answers, scoring and history.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			auth.NewTokenManager,
			fx.Annotate(event.NewEventPublisher, fx.As(new(event.Publisher))),
			NewGinEngine,
		),

		fx.Provide(
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
			repository.NewSessionRepository,
			repository.NewAdminRepository,
		),

		fx.Provide(
			service.NewCatalogService,
			service.NewSessionService,
			service.NewAnswerService,
			service.NewScoringService,
			service.NewHistoryService,
			service.NewAdminTestService,
			service.NewQuestionService,
			service.NewAdminAuthService,
		),

		fx.Provide(
			userctrl.NewExamController,
			userctrl.NewHistoryController,
			adminctrl.NewAdminTestController,
			adminctrl.NewAdminSessionController,
			adminctrl.NewAdminAuthController,
		),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(ClosePublisherOnStop),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.AppEnv == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("request_id", param.Request.Header.Get(middleware.RequestIDHeader)).
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
	r.Use(metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens *auth.TokenManager,
	examCtrl *userctrl.ExamController,
	historyCtrl *userctrl.HistoryController,
	adminTestCtrl *adminctrl.AdminTestController,
	adminSessionCtrl *adminctrl.AdminSessionController,
	adminAuthCtrl *adminctrl.AdminAuthController,
) {
	api := router.Group("/api")
	{
		api.GET("/tests", examCtrl.GetActiveTests)
		api.GET("/tests/:id", examCtrl.GetTest)

		api.POST("/sessions/start", examCtrl.StartSession)
		api.GET("/sessions/:token", examCtrl.GetSessionStatus)
		api.POST("/sessions/:token/answers", examCtrl.RecordAnswer)
		api.POST("/sessions/:token/complete", examCtrl.CompleteSession)

		api.GET("/history/:email", historyCtrl.GetHistory)
		api.GET("/history/details/:id", historyCtrl.GetHistoryDetails)
		api.DELETE("/history/:id", historyCtrl.DeleteHistoryEntry)
	}

	api.POST("/admin/login", adminAuthCtrl.Login)

	adminAPI := api.Group("/admin", middleware.AdminAuth(tokens))
	{
		adminAPI.GET("/tests", adminTestCtrl.ListTests)
		adminAPI.POST("/tests", adminTestCtrl.CreateTest)
		adminAPI.GET("/tests/:id", adminTestCtrl.GetTest)
		adminAPI.PUT("/tests/:id", adminTestCtrl.UpdateTest)
		adminAPI.DELETE("/tests/:id", adminTestCtrl.DeleteTest)
		adminAPI.POST("/tests/:id/activate", adminTestCtrl.ActivateTest)
		adminAPI.POST("/tests/:id/questions", adminTestCtrl.AddQuestion)

		adminAPI.PUT("/questions/:id", adminTestCtrl.UpdateQuestion)
		adminAPI.DELETE("/questions/:id", adminTestCtrl.DeleteQuestion)
		adminAPI.POST("/questions/:id/answers", adminTestCtrl.AddAnswer)

		adminAPI.PUT("/answers/:id", adminTestCtrl.UpdateAnswer)
		adminAPI.DELETE("/answers/:id", adminTestCtrl.DeleteAnswer)

		adminAPI.GET("/sessions", adminSessionCtrl.ListSessions)
		adminAPI.GET("/sessions/:id", adminSessionCtrl.GetSession)
		adminAPI.DELETE("/sessions/:id", adminSessionCtrl.DeleteSession)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam Hall API server starting on port %s", cfg.Server.Port)
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

func ClosePublisherOnStop(lc fx.Lifecycle, publisher event.Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
}

// ConfigureLogger re-applies level and format once .env has been read.
func ConfigureLogger(cfg *config.Config) {
	logger.InitWith(cfg.LogLevel, cfg.AppEnv)
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.Migrate(db)
}
