package models

import "time"

// Post — статья блога. ViewsCount only ever grows, one per detail read.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:150;index" json:"slug"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	ImagePath   string    `json:"image_path"`
	CreatedAt   time.Time `json:"created_at"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	ViewsCount  int       `gorm:"not null;default:0" json:"views_count"`
}
