package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"termimage/backend/internal/auth"
	"termimage/backend/internal/config"
	"termimage/backend/internal/database"
	"termimage/backend/internal/handler"
	"termimage/backend/internal/hooks"
	"termimage/backend/internal/hub"
	"termimage/backend/internal/logger"
	"termimage/backend/internal/media"
	"termimage/backend/internal/metrics"
	"termimage/backend/internal/repository"
	"termimage/backend/internal/store"
	"termimage/backend/internal/termimage"
	"termimage/backend/pkg/jwt"

	// Swagger imports
	_ "termimage/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Term Image API
// @version         1.0
// @description     Taxonomy terms with an attached image, for the content admin.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.New("termimage", cfg.LogLevel)
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	db, err := database.Connect(connectCtx, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	images, err := newImageStore(cfg, db)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize term image store")
	}

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL, cfg.NonceTTL)
	events := hub.NewHub()

	// Handlers register once; the table is frozen before serving.
	table := hooks.Table{}
	termimage.New(images, media.NewGormLibrary(db), tokens,
		termimage.WithTaxonomies(cfg.TermImage.Taxonomies...),
		termimage.WithLabels(termimage.Labels{
			Field:       cfg.TermImage.LabelField,
			Description: cfg.TermImage.LabelDescription,
			Attach:      cfg.TermImage.LabelAttach,
			Remove:      cfg.TermImage.LabelRemove,
			ModalTitle:  cfg.TermImage.LabelModalTitle,
			ModalButton: cfg.TermImage.LabelModalButton,
		}),
		termimage.WithNotifier(events),
		termimage.WithLogger(log.WithField("component", "termimage")),
	).Register(table)

	router := setupRouter(routerDeps{
		db:         db,
		tokens:     tokens,
		events:     events,
		terms:      repository.NewTermRepository(db),
		dispatcher: hooks.NewDispatcher(table, log.WithField("component", "hooks")),
		log:        log,
	})

	log.WithFields(logrus.Fields{
		"addr":       cfg.ServerAddr,
		"storage":    cfg.TermImage.Storage,
		"taxonomies": cfg.TermImage.Taxonomies,
	}).Info("Server is running")
	fmt.Printf("Swagger UI is available at http://localhost%s/swagger/index.html\n", cfg.ServerAddr)
	if err := router.Run(cfg.ServerAddr); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

// newImageStore builds the configured association store backend, instrumented.
func newImageStore(cfg *config.Config, db *gorm.DB) (store.Store, error) {
	opts := store.Options{
		DB:         db,
		MetaKey:    cfg.TermImage.MetaKey,
		OptionName: cfg.TermImage.OptionName,
	}
	if cfg.TermImage.Storage == "redis" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts.Redis = redis.NewClient(redisOpts)
	}

	s, err := store.New(cfg.TermImage.Storage, opts)
	if err != nil {
		return nil, err
	}
	return store.Instrument(s, cfg.TermImage.Storage), nil
}

type routerDeps struct {
	db         *gorm.DB
	tokens     *jwt.Manager
	events     *hub.Hub
	terms      handler.TermStore
	dispatcher *hooks.Dispatcher
	log        *logrus.Entry
}

func setupRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(d.log), metrics.Middleware())

	termHandler := handler.NewTermHandler(d.terms, d.dispatcher, d.log)
	mediaHandler := handler.NewMediaHandler(d.db, d.log)
	authHandler := handler.NewAuthHandler(d.db, d.tokens, d.log)
	eventHandler := handler.NewEventHandler(d.events)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET(termimage.ScriptPath, gin.WrapH(termimage.ScriptHandler()))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.RegisterUser)
			authRoutes.POST("/login", authHandler.LoginUser)
		}

		// Public term routes
		termRoutes := apiV1.Group("/taxonomies/:taxonomy/terms")
		termRoutes.Use(auth.OptionalAuthMiddleware(d.tokens))
		{
			termRoutes.GET("", termHandler.ListTerms)
			termRoutes.GET("/:id", termHandler.GetTerm)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(d.tokens), auth.AdminMiddleware(d.db))
		{
			adminTerms := adminRoutes.Group("/taxonomies/:taxonomy")
			{
				adminTerms.GET("/terms/new", termHandler.NewTermForm)
				adminTerms.GET("/terms/:id/edit", termHandler.EditTermForm)
				adminTerms.POST("/terms", termHandler.CreateTerm)
				adminTerms.POST("/terms/:id", termHandler.UpdateTerm)
				adminTerms.DELETE("/terms/:id", termHandler.DeleteTerm)
				adminTerms.GET("/events", eventHandler.StreamEvents)
			}

			mediaRoutes := adminRoutes.Group("/media")
			{
				mediaRoutes.GET("", mediaHandler.ListMedia)
				mediaRoutes.POST("", mediaHandler.CreateMedia)
			}
		}
	}

	return router
}
