package models

import "time"

// Base — common columns shared by catalog tables.
type Base struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
