package repository

import (
	"errors" // gorm sentinel checks

	"contacts_app/internal/apperr" // Typed application errors
	"contacts_app/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// UserRepository mediates reads and writes to user records
type UserRepository struct {
	db *gorm.DB // Shared GORM handle
}

// NewUserRepository wraps a GORM handle in a user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns the user with the given id
func (r *UserRepository) GetByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to fetch user")
	}
	return &user, nil
}

// GetByEmail returns the user with the given login email
func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to fetch user")
	}
	return &user, nil
}

// Create persists a new user. A duplicate email surfaces as a conflict.
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	// New accounts start as plain users unless a role was set explicitly
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Account already exists")
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to create user")
	}
	return user, nil
}

// UpdateRefreshToken stores the user's current refresh token; nil revokes it
func (r *UserRepository) UpdateRefreshToken(user *domain.User, token *string) error {
	if err := r.db.Model(user).Update("refresh_token", token).Error; err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "Failed to update refresh token")
	}
	user.RefreshToken = token
	return nil
}

// ConfirmEmail marks the user with the given email as confirmed
func (r *UserRepository) ConfirmEmail(email string) error {
	user, err := r.GetByEmail(email)
	if err != nil {
		return err // Not found or store failure
	}
	if err := r.db.Model(user).Update("confirmed", true).Error; err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "Failed to confirm email")
	}
	user.Confirmed = true
	return nil
}

// UpdateAvatar replaces the user's avatar URL and returns the updated record
func (r *UserRepository) UpdateAvatar(user *domain.User, url string) (*domain.User, error) {
	if err := r.db.Model(user).Update("avatar", url).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to update avatar")
	}
	user.Avatar = &url
	return user, nil
}
