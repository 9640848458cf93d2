// Package users owns the account lifecycle: registration with email
// confirmation, login, password reset, and the pending email change flow.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"naomitex/internal/apperrors"
	"naomitex/internal/mail"
	"naomitex/internal/models"
	"naomitex/internal/validation"
)

const mailSignature = "Naomitex support team."

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ProfileInput carries the profile form fields. Submitting a NewEmail that
// differs from the current address starts the email change flow.
type ProfileInput struct {
	NewEmail   string `json:"new_email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"max=20"`
	AvatarPath string `json:"avatar_path"`
	Country    string `json:"country" validate:"max=50"`
}

// Service owns user accounts.
type Service struct {
	db        *gorm.DB
	mail      mail.Dispatcher
	baseURL   string
	logger    *slog.Logger
	validator *validation.Validator
}

// NewService creates the account service. baseURL prefixes the
// verification links put into outgoing mail.
func NewService(db *gorm.DB, dispatcher mail.Dispatcher, baseURL string, logger *slog.Logger) *Service {
	return &Service{
		db:        db,
		mail:      dispatcher,
		baseURL:   baseURL,
		logger:    logger,
		validator: validation.New(),
	}
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an inactive account and mails a confirmation link. The
// account stays unable to log in until the token is presented to
// VerifyEmail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, apperrors.Validation("email already registered")
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Token:        token,
		NewEmail:     in.Email,
		IsActive:     false,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/email_confirm/%s", s.baseURL, token)
	body := fmt.Sprintf(
		"Hello. To confirm your email address, please follow the link %s. %s",
		url, mailSignature)
	if err := s.mail.Send("Email confirmation", body, []string{user.Email}); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "id", user.ID)
	return &user, nil
}

// VerifyEmail activates the account matching the exact token.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.byToken(ctx, "token", token)
	if err != nil {
		return nil, err
	}
	user.IsActive = true
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and the activation gate.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized("wrong email or password")
	}
	if err != nil {
		return nil, err
	}
	if !models.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.Unauthorized("wrong email or password")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is not active")
	}
	return &user, nil
}

// ResetPassword overwrites the account credential with a generated
// password and mails it to the user in cleartext. Unknown emails are a
// not-found outcome.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("user not found")
	}
	if err != nil {
		return err
	}

	password, err := GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := models.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return err
	}

	body := fmt.Sprintf("Hello! Your access password has been changed: %s. %s", password, mailSignature)
	return s.mail.Send("Password recovery", body, []string{user.Email})
}

// UpdateProfile saves the profile fields. A new email address is stored as
// pending, the account is deactivated, and a confirmation link goes to the
// new address; the swap commits only in ConfirmEmailChange.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Phone = in.Phone
	user.AvatarPath = in.AvatarPath
	user.Country = in.Country

	if in.NewEmail != "" && in.NewEmail != user.Email {
		token, err := NewToken()
		if err != nil {
			return nil, err
		}
		user.NewEmail = in.NewEmail
		user.NewToken = token
		user.IsActive = false
		if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/change_email/%s", s.baseURL, token)
		body := fmt.Sprintf(
			"Hello. To confirm your email address, please follow the link %s. %s",
			url, mailSignature)
		if err := s.mail.Send("Email confirmation", body, []string{user.NewEmail}); err != nil {
			return nil, err
		}
		return user, nil
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ConfirmEmailChange commits a pending email change: the pending address
// and token become current, the pending token clears, and the account
// reactivates.
func (s *Service) ConfirmEmailChange(ctx context.Context, token string) (*models.User, error) {
	user, err := s.byToken(ctx, "new_token", token)
	if err != nil {
		return nil, err
	}

	user.Email = user.NewEmail
	user.Token = user.NewToken
	user.NewToken = ""
	user.IsActive = true
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) byToken(ctx context.Context, column, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.NotFound("user not found")
	}
	var user models.User
	err := s.db.WithContext(ctx).Where(column+" = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
