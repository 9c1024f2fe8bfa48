package domain

// Role determines which contact operations a user may call
type Role string

// The three roles known to the application
const (
	RoleAdmin     Role = "admin"     // Full access, including delete
	RoleModerator Role = "moderator" // May read, create and update contacts
	RoleUser      Role = "user"      // May read and create contacts
)

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	Username     string    `gorm:"size:50" json:"username"`                                // Display name
	Email        string    `gorm:"size:150;unique;not null" json:"email"`                  // Unique login email
	Password     string    `gorm:"size:255;not null" json:"-"`                             // Hashed password, never serialized
	RefreshToken *string   `gorm:"size:255" json:"-"`                                      // Currently valid refresh token, if any
	Avatar       *string   `gorm:"size:255" json:"avatar"`                                 // Avatar URL, if any
	Role         Role      `gorm:"size:20;default:user" json:"role"`                       // Role: admin, moderator or user
	Confirmed    bool      `gorm:"default:false" json:"confirmed"`                         // Email confirmed flag
	Contacts     []Contact `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Owned contacts, removed with the user
}
