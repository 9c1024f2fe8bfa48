package domain

import "time"

// Contact Model
type Contact struct {
	ID             uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	Name           string    `gorm:"size:50;index;not null" json:"name"`          // First name
	Surname        string    `gorm:"size:50;index;not null" json:"surname"`       // Last name
	Email          string    `gorm:"size:150;unique;index;not null" json:"email"` // Unique across all users
	Phone          string    `gorm:"size:16;unique;index;not null" json:"phone"`  // Unique across all users
	Birthday       *Date     `gorm:"type:date" json:"birthday"`                   // Optional date of birth
	AdditionalInfo string    `gorm:"size:100" json:"additional_info"`             // Free-text notes
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`            // Timestamp of creation
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`            // Timestamp of last update
	UserID         uint      `gorm:"index;not null" json:"-"`                     // Foreign key to the owning user
}
