// Package blog owns the post lifecycle: visibility-filtered listings,
// slugged writes, and the view counter with its notification trigger.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"naomitex/internal/apperrors"
	"naomitex/internal/mail"
	"naomitex/internal/models"
	"naomitex/internal/policy"
	"naomitex/internal/validation"
)

// viewsNotifyAt is the exact counter value that fires the congratulation
// mail. Equality, not a threshold: a counter that skips past the value
// never notifies.
const viewsNotifyAt = 100

// PostInput carries the editable post fields. The slug derives from the
// title and is never accepted from the caller.
type PostInput struct {
	Title       string `json:"title" validate:"required,max=200,forbidden_words"`
	Text        string `json:"text" validate:"required,forbidden_words"`
	ImagePath   string `json:"image_path"`
	IsPublished bool   `json:"is_published"`
}

// Service owns blog posts.
type Service struct {
	db        *gorm.DB
	mail      mail.Dispatcher
	notify    []string
	logger    *slog.Logger
	validator *validation.Validator
}

// NewService creates the blog service. notify is the fixed recipient list
// for the view milestone mail; empty disables the trigger.
func NewService(db *gorm.DB, dispatcher mail.Dispatcher, notify []string, logger *slog.Logger) *Service {
	return &Service{
		db:        db,
		mail:      dispatcher,
		notify:    notify,
		logger:    logger,
		validator: validation.New(),
	}
}

// List returns the posts the principal may see, newest first.
func (s *Service) List(ctx context.Context, p policy.Principal) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Scopes(policy.PostScope(p)).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// View returns one post by slug and counts the read. The increment is a
// single atomic increment-and-return, so concurrent views cannot lose a
// count or double-fire the milestone mail; exactly the request that lands
// on the milestone value sends it. A dispatcher failure propagates after
// the increment is already persisted.
func (s *Service) View(ctx context.Context, postSlug string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Where("slug = ?", postSlug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("post not found")
	}
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "views_count"}}}).
		Where("id = ?", post.ID).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	if err != nil {
		return nil, err
	}

	if post.ViewsCount == viewsNotifyAt && len(s.notify) > 0 {
		body := fmt.Sprintf("Post %q has reached %d views.", post.Title, viewsNotifyAt)
		if err := s.mail.Send("Congratulations!", body, s.notify); err != nil {
			return nil, err
		}
		s.logger.Info("view milestone mail sent", "slug", post.Slug)
	}

	return &post, nil
}

// Create validates and persists a new post with a slug derived from the
// title.
func (s *Service) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Text:        in.Text,
		ImagePath:   in.ImagePath,
		IsPublished: in.IsPublished,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update rewrites a post found by its current slug; the slug follows the
// new title.
func (s *Service) Update(ctx context.Context, postSlug string, in PostInput) (*models.Post, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	var post models.Post
	err := s.db.WithContext(ctx).Where("slug = ?", postSlug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("post not found")
	}
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Slug = slug.Make(in.Title)
	post.Text = in.Text
	post.ImagePath = in.ImagePath
	post.IsPublished = in.IsPublished

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post by slug.
func (s *Service) Delete(ctx context.Context, postSlug string) error {
	res := s.db.WithContext(ctx).Where("slug = ?", postSlug).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("post not found")
	}
	return nil
}
