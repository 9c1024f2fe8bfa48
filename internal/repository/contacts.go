package repository

import (
	"errors"  // gorm sentinel checks
	"strings" // Case folding for search
	"time"    // Birthday window arithmetic

	"contacts_app/internal/apperr" // Typed application errors
	"contacts_app/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// BirthdayWindowDays is the inclusive number of days ahead covered by the
// upcoming-birthdays query.
const BirthdayWindowDays = 7

// ContactRepository mediates all reads and writes to contact records. Every
// operation is scoped to the owning user; no method can observe another
// user's contacts.
type ContactRepository struct {
	db *gorm.DB // Shared GORM handle
}

// NewContactRepository wraps a GORM handle in a contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// scoped returns a query restricted to contacts owned by the given user.
// All repository queries must start here so the ownership filter is never missed.
func (r *ContactRepository) scoped(user *domain.User) *gorm.DB {
	return r.db.Where("user_id = ?", user.ID)
}

// List returns the user's contacts ordered by id ascending, skipping offset
// records and returning at most limit
func (r *ContactRepository) List(user *domain.User, limit, offset int) ([]domain.Contact, error) {
	var contacts []domain.Contact
	// Order by primary key so pagination is deterministic
	if err := r.scoped(user).Order("id asc").Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to list contacts")
	}
	return contacts, nil
}

// GetByID returns the user's contact with the given id. A contact owned by a
// different user yields the same not-found signal as a missing one.
func (r *ContactRepository) GetByID(user *domain.User, id uint) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.scoped(user).Where("id = ?", id).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Not found") // No ownership leak
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to fetch contact")
	}
	return &contact, nil
}

// GetByEmail returns the user's contact with the given email, exact match.
// Used as the duplicate probe before create.
func (r *ContactRepository) GetByEmail(user *domain.User, email string) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.scoped(user).Where("email = ?", email).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Not found")
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to fetch contact")
	}
	return &contact, nil
}

// GetByPhone returns the user's contact with the given phone, exact match.
// Used as the duplicate probe before create.
func (r *ContactRepository) GetByPhone(user *domain.User, phone string) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.scoped(user).Where("phone = ?", phone).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Not found")
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to fetch contact")
	}
	return &contact, nil
}

// Create persists a new contact owned by the given user and returns it with
// its generated id and timestamps. A store uniqueness violation is the
// authoritative conflict signal; the caller's pre-check only gives a
// friendlier error path.
func (r *ContactRepository) Create(user *domain.User, contact *domain.Contact) (*domain.Contact, error) {
	contact.ID = 0             // Let the store assign the identifier
	contact.UserID = user.ID   // Enforce ownership regardless of input
	if err := r.db.Create(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Already exists") // Email or phone taken
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to create contact")
	}
	return contact, nil
}

// Update replaces all mutable fields of the user's contact with the given id.
// Fields absent from data are overwritten, not preserved.
func (r *ContactRepository) Update(user *domain.User, id uint, data *domain.Contact) (*domain.Contact, error) {
	contact, err := r.GetByID(user, id)
	if err != nil {
		return nil, err // Not found or store failure
	}
	// Full-replace semantics: every mutable field is taken from data
	contact.Name = data.Name
	contact.Surname = data.Surname
	contact.Email = data.Email
	contact.Phone = data.Phone
	contact.Birthday = data.Birthday
	contact.AdditionalInfo = data.AdditionalInfo
	if err := r.db.Save(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Already exists") // New email or phone taken
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to update contact")
	}
	return contact, nil
}

// Delete removes the user's contact with the given id and returns the removed
// record for confirmation
func (r *ContactRepository) Delete(user *domain.User, id uint) (*domain.Contact, error) {
	contact, err := r.GetByID(user, id)
	if err != nil {
		return nil, err // Not found or store failure
	}
	if err := r.db.Delete(contact).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to delete contact")
	}
	return contact, nil
}

// likeEscaper neutralizes LIKE wildcards in user queries so a literal % or _
// matches itself. '|' is the escape character because a backslash literal
// parses differently under mysql and sqlite.
var likeEscaper = strings.NewReplacer("|", "||", "%", "|%", "_", "|_")

// Search returns the user's contacts whose name, surname, email or phone
// contains the query, case-insensitively and with wildcards taken literally.
// An empty query matches nothing. No pagination.
func (r *ContactRepository) Search(user *domain.User, query string) ([]domain.Contact, error) {
	contacts := make([]domain.Contact, 0)
	if query == "" {
		return contacts, nil
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	if err := r.scoped(user).
		Where("lower(name) LIKE ? ESCAPE '|' OR lower(surname) LIKE ? ESCAPE '|' OR lower(email) LIKE ? ESCAPE '|' OR lower(phone) LIKE ? ESCAPE '|'",
			pattern, pattern, pattern, pattern).
		Order("id asc").
		Find(&contacts).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to search contacts")
	}
	return contacts, nil
}

// UpcomingBirthdays returns the user's contacts whose birthday falls within
// the next BirthdayWindowDays days, inclusive of today. A birthday that has
// already passed this year is excluded; it does not roll over to next year.
func (r *ContactRepository) UpcomingBirthdays(user *domain.User) ([]domain.Contact, error) {
	var contacts []domain.Contact
	if err := r.scoped(user).Find(&contacts).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "Failed to fetch contacts")
	}
	now := time.Now()
	upcoming := make([]domain.Contact, 0)
	for _, contact := range contacts {
		if contact.Birthday == nil {
			continue // No birthday recorded
		}
		if birthdayInWindow(*contact.Birthday, now) {
			upcoming = append(upcoming, contact)
		}
	}
	return upcoming, nil
}

// birthdayInWindow reports whether the birthday's occurrence in the current
// calendar year lies within [0, BirthdayWindowDays] days of today. Feb 29
// normalizes to Mar 1 in non-leap years.
func birthdayInWindow(birthday domain.Date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(now.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	days := int(next.Sub(today).Hours() / 24)
	return days >= 0 && days <= BirthdayWindowDays
}
