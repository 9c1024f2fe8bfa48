package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"contacts_app/internal/apperr"     // Typed application errors
	"contacts_app/internal/domain"     // Importing domain models
	"contacts_app/internal/middleware" // Current-user accessor
	"contacts_app/internal/repository" // Contact repository

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Pagination bounds for the list endpoint
const (
	defaultLimit = 10  // Contacts returned when limit is absent
	maxLimit     = 500 // Hard ceiling on limit
)

// ContactRequest carries the mutable fields of a contact. Create and update
// both bind it; update has full-replace semantics.
type ContactRequest struct {
	Name           string       `json:"name" binding:"required,min=3,max=50"`    // First name, 3-50 chars
	Surname        string       `json:"surname" binding:"required,min=3,max=50"` // Last name, 3-50 chars
	Email          string       `json:"email" binding:"required,email"`          // Well-formed email
	Phone          string       `json:"phone" binding:"required,min=10,max=16"`  // Phone, 10-16 chars
	Birthday       *domain.Date `json:"birthday"`                                // Optional "YYYY-MM-DD"
	AdditionalInfo string       `json:"additional_info" binding:"max=100"`       // Free text, at most 100 chars
}

// toContact maps the request onto a domain contact
func (r *ContactRequest) toContact() domain.Contact {
	return domain.Contact{
		Name:           r.Name,           // First name
		Surname:        r.Surname,        // Last name
		Email:          r.Email,          // Contact email
		Phone:          r.Phone,          // Contact phone
		Birthday:       r.Birthday,       // Optional birthday
		AdditionalInfo: r.AdditionalInfo, // Free text
	}
}

// mustCurrentUser pulls the authenticated user set by the JWT middleware
func mustCurrentUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(c)
	// Check if the user exists in context
	if !ok {
		// If not, return unauthorized
		apperr.Respond(c, apperr.Unauthorized("Unauthorized"))
		return nil, false
	}
	return user, true
}

// contactID parses the {id} path parameter, which must be a positive integer
func contactID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	// Reject anything that is not a positive integer
	if err != nil || id < 1 {
		apperr.Respond(c, apperr.Validation("Contact id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

// ListContactsHandler returns the caller's contacts with limit/offset pagination
func ListContactsHandler(contacts *repository.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		limit := defaultLimit // Default limit
		offset := 0           // Default offset
		// Clamp limit to the ceiling; junk and non-positive values fall back
		// to the default
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				if v > maxLimit {
					v = maxLimit // Clamp, do not reject
				}
				limit = v // Set limit
			}
		}
		// Check and set offset
		if o := c.Query("offset"); o != "" {
			// If valid, set offset
			if v, err := strconv.Atoi(o); err == nil && v >= 0 {
				offset = v // Set offset
			}
		}
		result, err := contacts.List(user, limit, offset) // Fetch the page
		if err != nil {
			apperr.Respond(c, err) // Store failure
			return
		}
		c.JSON(http.StatusOK, result) // Return the contacts
	}
}

// SearchContactsHandler returns the caller's contacts matching the query
// across name, surname, email and phone
func SearchContactsHandler(contacts *repository.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		result, err := contacts.Search(user, c.Query("query")) // Case-insensitive substring match
		if err != nil {
			apperr.Respond(c, err) // Store failure
			return
		}
		c.JSON(http.StatusOK, result) // Return the matches
	}
}

// BirthdaysHandler returns the caller's contacts with a birthday in the next week
func BirthdaysHandler(contacts *repository.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		result, err := contacts.UpcomingBirthdays(user) // Scan for upcoming birthdays
		if err != nil {
			apperr.Respond(c, err) // Store failure
			return
		}
		c.JSON(http.StatusOK, result) // Return the contacts
	}
}

// GetContactHandler returns a single contact owned by the caller
func GetContactHandler(contacts *repository.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		id, ok := contactID(c) // Parse the path id
		if !ok {
			return
		}
		contact, err := contacts.GetByID(user, id) // Scoped lookup
		if err != nil {
			apperr.Respond(c, err) // Not found or store failure
			return
		}
		c.JSON(http.StatusOK, contact) // Return the contact
	}
}

// CreateContactHandler validates input, probes for duplicates and persists a
// new contact owned by the caller
func CreateContactHandler(contacts *repository.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		var req ContactRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return the field constraint violation
			apperr.Respond(c, apperr.Wrap(err, apperr.CodeValidation, "Invalid contact data: "+err.Error()))
			return
		}
		// Probe for an existing contact with the same email or phone. The
		// probes give a friendly 409; the store constraint remains the
		// authoritative check under concurrent creates.
		if _, err := contacts.GetByEmail(user, req.Email); err == nil {
			apperr.Respond(c, apperr.Conflict("Already exists"))
			return
		} else if !apperr.IsCode(err, apperr.CodeNotFound) {
			apperr.Respond(c, err) // Store failure during the probe
			return
		}
		if _, err := contacts.GetByPhone(user, req.Phone); err == nil {
			apperr.Respond(c, apperr.Conflict("Already exists"))
			return
		} else if !apperr.IsCode(err, apperr.CodeNotFound) {
			apperr.Respond(c, err) // Store failure during the probe
			return
		}
		contact := req.toContact()                     // Map to the domain model
		created, err := contacts.Create(user, &contact) // Persist; duplicate key maps to conflict
		if err != nil {
			apperr.Respond(c, err) // Conflict or store failure
			return
		}
		// Log the mutation
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,    // Owning user
			"contact_id": created.ID, // New contact
		}).Info("Contact created")
		c.JSON(http.StatusCreated, created) // Return the new contact
	}
}

// UpdateContactHandler replaces all mutable fields of one of the caller's contacts
func UpdateContactHandler(contacts *repository.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		id, ok := contactID(c) // Parse the path id
		if !ok {
			return
		}
		var req ContactRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return the field constraint violation
			apperr.Respond(c, apperr.Wrap(err, apperr.CodeValidation, "Invalid contact data: "+err.Error()))
			return
		}
		data := req.toContact()                        // Map to the domain model
		updated, err := contacts.Update(user, id, &data) // Full replace
		if err != nil {
			apperr.Respond(c, err) // Not found, conflict or store failure
			return
		}
		// Log the mutation
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,    // Owning user
			"contact_id": updated.ID, // Updated contact
		}).Info("Contact updated")
		c.JSON(http.StatusOK, updated) // Return the updated contact
	}
}

// DeleteContactHandler removes one of the caller's contacts
func DeleteContactHandler(contacts *repository.ContactRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustCurrentUser(c) // Get the authenticated user
		if !ok {
			return
		}
		id, ok := contactID(c) // Parse the path id
		if !ok {
			return
		}
		deleted, err := contacts.Delete(user, id) // Scoped delete
		if err != nil {
			apperr.Respond(c, err) // Not found or store failure
			return
		}
		// Log the mutation
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,    // Owning user
			"contact_id": deleted.ID, // Removed contact
		}).Info("Contact deleted")
		c.Status(http.StatusNoContent) // Empty body on success
	}
}
