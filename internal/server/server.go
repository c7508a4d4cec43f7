package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/alexandria-archive/backend/internal/auth"
	"github.com/alexandria-archive/backend/internal/database"
	"github.com/alexandria-archive/backend/internal/handlers"
	"github.com/alexandria-archive/backend/internal/metrics"
	"github.com/alexandria-archive/backend/internal/middleware"
	"github.com/alexandria-archive/backend/internal/notify"
)

type Server struct {
	db      database.Service
	tokens  *auth.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db, err := database.New()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	tokens := auth.NewService(os.Getenv("JWT_SECRET"))

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// Create unified handler
	handler := handlers.NewHandler(db.DB(), tokens, notify.NewSMSNotifierFromEnv(), uploadDir)

	// Create server instance
	newServer := &Server{
		db:      db,
		tokens:  tokens,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(metrics.Middleware())

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Credential endpoints get a tighter budget than the rest of the API.
	loginLimiter := middleware.NewRateLimiter(rate.Limit(10.0/60.0), 10)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", loginLimiter.Middleware(), s.handler.Auth.Register)
		api.POST("/login", loginLimiter.Middleware(), s.handler.Auth.Login)

		// Post routes (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)

		// File routes (public reads)
		api.GET("/posts/:id/files", s.handler.File.List)
		api.GET("/posts/:id/files/:filename", s.handler.File.Download)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.tokens))
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.PUT("/token", s.handler.Auth.RefreshToken)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.POST("/posts/:id/vote", s.handler.Post.VotePost)

			// File protected routes
			protected.POST("/posts/:id/files", s.handler.File.Upload)
		}
	}

	return r
}
