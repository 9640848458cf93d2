package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"naomitex/internal/apperrors"
	"naomitex/internal/models"
)

// ContactsService reads the single company contacts record.
type ContactsService struct {
	db *gorm.DB
}

// NewContactsService creates a contacts service.
func NewContactsService(db *gorm.DB) *ContactsService {
	return &ContactsService{db: db}
}

// Get returns the contacts record stored under primary key 1.
func (s *ContactsService) Get(ctx context.Context) (*models.Contacts, error) {
	var contacts models.Contacts
	err := s.db.WithContext(ctx).First(&contacts, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("contacts are not configured")
	}
	if err != nil {
		return nil, err
	}
	return &contacts, nil
}
