package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"contacts_app/internal/apperr"     // Typed application errors
	"contacts_app/internal/config"     // Application configuration
	"contacts_app/internal/domain"     // Importing domain models
	"contacts_app/internal/repository" // User repository
	"contacts_app/internal/utils"      // JWT, cache and avatar utilities

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Request and Response structs
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=6,max=12"` // Display name, 6-12 chars
	Email    string `json:"email" binding:"required,email"`           // Login email
	Password string `json:"password" binding:"required,min=6,max=8"`  // Password, 6-8 chars
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Login email
	Password string `json:"password" binding:"required"`    // Password
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // Short-lived API token
	RefreshToken string `json:"refresh_token"` // Long-lived rotation token
	TokenType    string `json:"token_type"`    // Always "bearer"
}

// UserResponse is the public view of a user record
type UserResponse struct {
	ID        uint        `json:"id"`        // User ID
	Username  string      `json:"username"`  // Display name
	Email     string      `json:"email"`     // Login email
	Avatar    *string     `json:"avatar"`    // Avatar URL, if any
	Role      domain.Role `json:"role"`      // User role
	Confirmed bool        `json:"confirmed"` // Email confirmed flag
}

// newUserResponse maps a user record to its public view
func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,        // User ID
		Username:  u.Username,  // Display name
		Email:     u.Email,     // Login email
		Avatar:    u.Avatar,    // Avatar URL
		Role:      u.Role,      // User role
		Confirmed: u.Confirmed, // Email confirmed flag
	}
}

// SignupHandler registers a new account with a hashed password and a
// generated default avatar
func SignupHandler(users *repository.UserRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return the field constraint violation
			apperr.Respond(c, apperr.Wrap(err, apperr.CodeValidation, "Invalid signup data: "+err.Error()))
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			apperr.Respond(c, apperr.Wrap(err, apperr.CodeInternal, "Failed to hash password"))
			return
		}
		avatar := utils.DefaultAvatar(req.Email) // Deterministic default avatar
		// Store the email lowercased so uniqueness is case-insensitive
		user := &domain.User{
			Username: req.Username,                 // Display name
			Email:    strings.ToLower(req.Email),   // Normalized login email
			Password: string(hash),                 // Hashed password
			Avatar:   &avatar,                      // Default avatar
			Role:     domain.RoleUser,              // New accounts start as plain users
		}
		created, err := users.Create(user) // Duplicate email maps to conflict
		if err != nil {
			apperr.Respond(c, err) // Conflict or store failure
			return
		}
		// Issue the email confirmation token. Mail delivery is handled by an
		// external collaborator; the token is logged so operators can resend.
		token, err := utils.GenerateJWT(created.ID, utils.ScopeEmail, cfg.JWTSecret, cfg.EmailTokenTTL)
		if err == nil {
			logrus.WithFields(logrus.Fields{
				"user_id": created.ID, // New account
				"token":   token,      // Confirmation token
			}).Info("Confirmation token issued")
		}
		// Return the new account
		c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(created), "detail": "User successfully created"})
	}
}

// LoginHandler authenticates a confirmed user and returns a token pair
func LoginHandler(users *repository.UserRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return the field constraint violation
			apperr.Respond(c, apperr.Wrap(err, apperr.CodeValidation, "Invalid login data: "+err.Error()))
			return
		}
		user, err := users.GetByEmail(strings.ToLower(req.Email)) // Fetch by normalized email
		if err != nil {
			// Unknown email looks the same as a wrong password
			apperr.Respond(c, apperr.Unauthorized("Invalid credentials"))
			return
		}
		// Unconfirmed accounts cannot log in
		if !user.Confirmed {
			apperr.Respond(c, apperr.Unauthorized("Email not confirmed"))
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			apperr.Respond(c, apperr.Unauthorized("Invalid credentials"))
			return
		}
		issueTokenPair(c, users, cfg, user) // Issue and return the pair
	}
}

// RefreshTokenHandler rotates a refresh token into a new token pair. The
// presented token must match the one stored for the user; a mismatch revokes
// the stored token.
func RefreshTokenHandler(users *repository.UserRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperr.Respond(c, apperr.Unauthorized("Missing or invalid Authorization header"))
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")                   // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, utils.ScopeRefresh, cfg.JWTSecret) // Parse as a refresh token
		if err != nil {
			apperr.Respond(c, apperr.Unauthorized("Invalid or expired refresh token"))
			return
		}
		user, err := users.GetByID(claims.UserID) // Resolve the account
		if err != nil {
			apperr.Respond(c, apperr.Unauthorized("Invalid or expired refresh token"))
			return
		}
		// A valid token that is not the stored one means it was already
		// rotated or stolen; revoke the stored token either way
		if user.RefreshToken == nil || *user.RefreshToken != tokenStr {
			_ = users.UpdateRefreshToken(user, nil)
			apperr.Respond(c, apperr.Unauthorized("Invalid refresh token"))
			return
		}
		issueTokenPair(c, users, cfg, user) // Issue and return the new pair
	}
}

// issueTokenPair generates an access/refresh pair, stores the refresh token
// and writes the token response
func issueTokenPair(c *gin.Context, users *repository.UserRepository, cfg *config.Config, user *domain.User) {
	access, err := utils.GenerateJWT(user.ID, utils.ScopeAccess, cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.CodeInternal, "Failed to generate token"))
		return
	}
	refresh, err := utils.GenerateJWT(user.ID, utils.ScopeRefresh, cfg.JWTSecret, cfg.RefreshTokenTTL)
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.CodeInternal, "Failed to generate token"))
		return
	}
	// Persist the refresh token so rotation can detect reuse
	if err := users.UpdateRefreshToken(user, &refresh); err != nil {
		apperr.Respond(c, err)
		return
	}
	// Return the token pair
	c.JSON(http.StatusOK, TokenResponse{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"})
}

// ConfirmEmailHandler verifies an email-scope token and marks the account confirmed
func ConfirmEmailHandler(users *repository.UserRepository, cache *utils.Cache, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse the token from the path; it must carry the email scope
		claims, err := utils.ParseJWT(c.Param("token"), utils.ScopeEmail, cfg.JWTSecret)
		if err != nil {
			apperr.Respond(c, apperr.Validation("Invalid token for email verification"))
			return
		}
		user, err := users.GetByID(claims.UserID) // Resolve the account
		// Only a missing account means the token is bad; a store failure is
		// an internal error and must surface as one
		if apperr.IsCode(err, apperr.CodeNotFound) {
			apperr.Respond(c, apperr.Validation("Invalid token for email verification"))
			return
		}
		if err != nil {
			apperr.Respond(c, err) // Store failure
			return
		}
		// Confirming twice is harmless
		if user.Confirmed {
			c.JSON(http.StatusOK, gin.H{"detail": "Your email is already confirmed"})
			return
		}
		if err := users.ConfirmEmail(user.Email); err != nil {
			apperr.Respond(c, err) // Store failure
			return
		}
		// Drop the cached user so the confirmed flag is visible immediately
		_ = cache.Delete(c.Request.Context(), utils.UserKey(user.ID))
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Email confirmed")
		c.JSON(http.StatusOK, gin.H{"detail": "Email confirmed"})
	}
}
