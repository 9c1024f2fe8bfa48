package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"contacts_app/internal/api"        // Custom package for API handlers
	"contacts_app/internal/config"     // Custom package for configuration
	"contacts_app/internal/db"         // Custom package for database access
	"contacts_app/internal/middleware" // Custom package for middleware
	"contacts_app/internal/repository" // Custom package for repositories
	"contacts_app/internal/utils"      // Custom package for cache utilities

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err) // Fatal error if configuration is incomplete
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database; TranslateError is enabled inside db.Open
	gormDB, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Request instrumentation: duration header plus access log
	r.Use(middleware.PerformanceMiddleware())

	// CORS for the browser frontend
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Repositories over the shared GORM handle
	contactRepo := repository.NewContactRepository(gormDB) // Contact store access
	userRepo := repository.NewUserRepository(gormDB)       // User store access
	userCache := utils.NewCache(redisClient, cfg.UserCacheTTL) // Authenticated-user cache

	// Shared middleware instances
	auth := middleware.JWTAuthMiddleware(gormDB, userCache, cfg.JWTSecret)              // Bearer-token authentication
	limiter := middleware.RateLimitMiddleware(redisClient, cfg.RateLimit, cfg.RateLimitWindow) // Per-route rate limiting
	policy := middleware.DefaultAccessPolicy()                                          // Operation role allow-lists

	// Health probe
	r.GET("/api/healthchecker", api.HealthcheckHandler(gormDB))

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/signup", api.SignupHandler(userRepo, cfg))                          // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(userRepo, cfg))                            // Login endpoint
	authGroup.GET("/refresh_token", api.RefreshTokenHandler(userRepo, cfg))              // Token rotation endpoint
	authGroup.GET("/confirmed_email/:token", api.ConfirmEmailHandler(userRepo, userCache, cfg)) // Email confirmation endpoint

	// User routes (protected by JWT)
	userGroup := r.Group("/users", auth)
	userGroup.GET("/me", api.MeHandler())                                  // Current user endpoint
	userGroup.PATCH("/avatar", api.UpdateAvatarHandler(userRepo, userCache)) // Avatar update endpoint

	// Contact routes (protected by JWT, role-gated and rate-limited per route)
	contactGroup := r.Group("/contacts", auth)
	contactGroup.GET("", middleware.RequireRoles(policy.Read...), limiter, api.ListContactsHandler(contactRepo))              // List endpoint
	contactGroup.GET("/search", middleware.RequireRoles(policy.Read...), limiter, api.SearchContactsHandler(contactRepo))     // Search endpoint
	contactGroup.GET("/birthdays", middleware.RequireRoles(policy.Read...), limiter, api.BirthdaysHandler(contactRepo))       // Upcoming birthdays endpoint
	contactGroup.GET("/:id", middleware.RequireRoles(policy.Read...), limiter, api.GetContactHandler(contactRepo))            // Get one endpoint
	contactGroup.POST("", middleware.RequireRoles(policy.Create...), limiter, api.CreateContactHandler(contactRepo))          // Create endpoint
	contactGroup.PUT("/:id", middleware.RequireRoles(policy.Update...), limiter, api.UpdateContactHandler(contactRepo))       // Update endpoint
	contactGroup.DELETE("/:id", middleware.RequireRoles(policy.Delete...), limiter, api.DeleteContactHandler(contactRepo))    // Delete endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
