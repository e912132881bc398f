package model

import "time"

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "Member"

// User represents an account of the exam-bank application. Email is the natural key.
type User struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	// Binary collation keeps lookups and the unique index case- and accent-sensitive.
	Email        string    `json:"email" gorm:"type:varchar(255) COLLATE utf8mb4_bin;uniqueIndex;not null"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;not null;default:'Member'"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// PublicProfile is the subset of User fields returned to clients.
type PublicProfile struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

// Profile returns the public fields including role.
func (u *User) Profile() PublicProfile {
	return PublicProfile{Email: u.Email, FullName: u.FullName, Role: u.Role}
}
