package db

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"naomitex/internal/models"
)

// Open подключается к БД по переданной строке DSN.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// MustOpen открывает соединение с БД по строке из .env
func MustOpen() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is empty (check your .env)")
	}
	db, err := Open(dsn)
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	return db
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVersion{},
		&models.Post{},
		&models.Contacts{},
	)
}
