package middleware

import (
	"strings" // String manipulation

	"contacts_app/internal/apperr" // Typed application errors
	"contacts_app/internal/domain" // Importing domain models
	"contacts_app/internal/utils"  // JWT and cache utilities

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// userContextKey is where the authenticated user is stored in the gin context
const userContextKey = "user"

// JWTAuthMiddleware validates bearer access tokens and resolves the calling
// user, consulting the cache before the store
func JWTAuthMiddleware(db *gorm.DB, cache *utils.Cache, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			apperr.Abort(c, apperr.Unauthorized("Missing or invalid Authorization header"))
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")              // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, utils.ScopeAccess, secret) // Parse as an access token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			apperr.Abort(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}
		ctx := c.Request.Context()
		var user domain.User
		// Try the cache first, fall back to the store on miss or error
		found, cacheErr := cache.Get(ctx, utils.UserKey(claims.UserID), &user)
		if cacheErr != nil || !found {
			if err := db.First(&user, claims.UserID).Error; err != nil {
				// Token refers to a user that no longer exists
				apperr.Abort(c, apperr.Unauthorized("Invalid or expired token"))
				return
			}
			_ = cache.Set(ctx, utils.UserKey(user.ID), user) // Best-effort cache fill
		}
		c.Set(userContextKey, &user) // Store the user in context
		c.Next()                     // Proceed to the next handler
	}
}

// CurrentUser returns the authenticated user stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false // Route not behind JWTAuthMiddleware
	}
	user, ok := v.(*domain.User)
	return user, ok
}
