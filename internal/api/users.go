package api

import (
	"net/http" // HTTP status codes

	"contacts_app/internal/apperr"     // Typed application errors
	"contacts_app/internal/repository" // User repository
	"contacts_app/internal/utils"      // Cache utilities

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// AvatarRequest carries the new avatar location
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required,url"` // Avatar URL
}

// MeHandler returns the authenticated user's own record
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user)) // Return the public view
	}
}

// UpdateAvatarHandler replaces the authenticated user's avatar URL
func UpdateAvatarHandler(users *repository.UserRepository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		var req AvatarRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return the field constraint violation
			apperr.Respond(c, apperr.Wrap(err, apperr.CodeValidation, "Invalid avatar data: "+err.Error()))
			return
		}
		updated, err := users.UpdateAvatar(user, req.Avatar) // Persist the new URL
		if err != nil {
			apperr.Respond(c, err) // Store failure
			return
		}
		// Drop the cached user so the new avatar is visible immediately
		_ = cache.Delete(c.Request.Context(), utils.UserKey(user.ID))
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Avatar updated")
		c.JSON(http.StatusOK, newUserResponse(updated)) // Return the updated view
	}
}

// HealthcheckHandler probes the store with a trivial query
func HealthcheckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var one int
		// Make request
		if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil || one != 1 {
			apperr.Respond(c, apperr.New(apperr.CodeInternal, "Error connecting to the database"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Contacts App is up and running"})
	}
}
