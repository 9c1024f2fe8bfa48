package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"contacts_app/internal/config"
	"contacts_app/internal/domain"
	"contacts_app/internal/middleware"
	"contacts_app/internal/repository"
	"contacts_app/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testPassword is the plaintext behind every seeded user's hash
const testPassword = "secret1"

// testEnv is a fully wired application over an in-memory store and redis
type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	users    *repository.UserRepository
	contacts *repository.ContactRepository
}

// newTestEnv wires the router the same way cmd/server does
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Contact{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
		EmailTokenTTL:   time.Hour,
		RateLimit:       1000, // High enough to stay out of the way here
		RateLimitWindow: 5 * time.Second,
		UserCacheTTL:    time.Minute,
	}

	contactRepo := repository.NewContactRepository(db)
	userRepo := repository.NewUserRepository(db)
	userCache := utils.NewCache(rdb, cfg.UserCacheTTL)

	auth := middleware.JWTAuthMiddleware(db, userCache, cfg.JWTSecret)
	limiter := middleware.RateLimitMiddleware(rdb, cfg.RateLimit, cfg.RateLimitWindow)
	policy := middleware.DefaultAccessPolicy()

	r := gin.New()
	r.Use(middleware.PerformanceMiddleware())

	r.GET("/api/healthchecker", HealthcheckHandler(db))

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", SignupHandler(userRepo, cfg))
	authGroup.POST("/login", LoginHandler(userRepo, cfg))
	authGroup.GET("/refresh_token", RefreshTokenHandler(userRepo, cfg))
	authGroup.GET("/confirmed_email/:token", ConfirmEmailHandler(userRepo, userCache, cfg))

	userGroup := r.Group("/users", auth)
	userGroup.GET("/me", MeHandler())
	userGroup.PATCH("/avatar", UpdateAvatarHandler(userRepo, userCache))

	contactGroup := r.Group("/contacts", auth)
	contactGroup.GET("", middleware.RequireRoles(policy.Read...), limiter, ListContactsHandler(contactRepo))
	contactGroup.GET("/search", middleware.RequireRoles(policy.Read...), limiter, SearchContactsHandler(contactRepo))
	contactGroup.GET("/birthdays", middleware.RequireRoles(policy.Read...), limiter, BirthdaysHandler(contactRepo))
	contactGroup.GET("/:id", middleware.RequireRoles(policy.Read...), limiter, GetContactHandler(contactRepo))
	contactGroup.POST("", middleware.RequireRoles(policy.Create...), limiter, CreateContactHandler(contactRepo))
	contactGroup.PUT("/:id", middleware.RequireRoles(policy.Update...), limiter, UpdateContactHandler(contactRepo))
	contactGroup.DELETE("/:id", middleware.RequireRoles(policy.Delete...), limiter, DeleteContactHandler(contactRepo))

	return &testEnv{router: r, db: db, cfg: cfg, users: userRepo, contacts: contactRepo}
}

// seedUser creates a confirmed user with the shared test password
func (e *testEnv) seedUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Username: "seeduser", Email: email, Password: string(hash), Role: role, Confirmed: true}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// token issues an access token for the given user
func (e *testEnv) token(t *testing.T, user *domain.User) string {
	t.Helper()
	tok, err := utils.GenerateJWT(user.ID, utils.ScopeAccess, e.cfg.JWTSecret, e.cfg.AccessTokenTTL)
	require.NoError(t, err)
	return tok
}

// do runs a request against the router, JSON-encoding body when present
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// contactBody builds a valid create/update payload
func contactBody(name, surname, email, phone string) map[string]any {
	return map[string]any{
		"name":            name,
		"surname":         surname,
		"email":           email,
		"phone":           phone,
		"additional_info": "some info",
	}
}

// decode unmarshals a JSON response body
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
