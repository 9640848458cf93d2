package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Capability — named permission grantable to a user. Stored as an explicit
// enumerated set instead of free-form permission strings.
type Capability string

const (
	// Catalog moderation.
	CapCancelPublication Capability = "cancel_publication"
	CapChangeCategory    Capability = "change_category"
	CapChangeDescription Capability = "change_description"

	// Blog content management.
	CapAddPost    Capability = "add_post"
	CapChangePost Capability = "change_post"
)

// CapabilitySet is persisted as a JSON array on the user row.
type CapabilitySet []Capability

// Has reports whether the set contains c.
func (s CapabilitySet) Has(c Capability) bool {
	for _, have := range s {
		if have == c {
			return true
		}
	}
	return false
}

// User — таблица users. Email is the login identifier; IsActive gates login
// and flips through the email confirmation flows. NewEmail/NewToken hold a
// pending email change until its token is presented.
type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Phone        string        `gorm:"size:20" json:"phone"`
	AvatarPath   string        `json:"avatar_path"`
	Country      string        `gorm:"size:50" json:"country"`
	Token        string        `gorm:"size:100;index" json:"-"`
	NewEmail     string        `json:"new_email,omitempty"`
	NewToken     string        `gorm:"size:100;index" json:"-"`
	IsActive     bool          `gorm:"not null;default:false" json:"is_active"`
	Capabilities CapabilitySet `gorm:"serializer:json" json:"capabilities,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"-"`
}

// HashPassword превращает обычный пароль в безопасный хэш
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword проверяет пароль на совпадение с хэшем
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
