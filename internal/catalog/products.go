package catalog

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"naomitex/internal/apperrors"
	"naomitex/internal/models"
	"naomitex/internal/policy"
	"naomitex/internal/validation"
)

// ProductInput carries the fields the full (owner) edit form exposes,
// together with inline version rows saved in the same operation.
type ProductInput struct {
	Name        string         `json:"name" validate:"required,max=100,forbidden_words"`
	Description string         `json:"description" validate:"forbidden_words"`
	ImagePath   string         `json:"image_path"`
	CategoryID  *uint          `json:"category_id"`
	Price       int            `json:"price" validate:"gte=0"`
	IsPublished bool           `json:"is_published"`
	Versions    []VersionInput `json:"versions" validate:"dive"`
}

// VersionInput is one inline version row. A zero ID creates a new row,
// a non-zero ID updates the existing one.
type VersionInput struct {
	ID            uint   `json:"id"`
	VersionNumber uint16 `json:"version_number"`
	VersionName   string `json:"version_name" validate:"required,max=100"`
	IsActive      bool   `json:"is_active"`
}

// moderatorInput is the restricted form: description, category and
// publication flag only.
type moderatorInput struct {
	Description string `json:"description" validate:"forbidden_words"`
	CategoryID  *uint  `json:"category_id"`
	IsPublished bool   `json:"is_published"`
}

// ProductService owns the product lifecycle.
type ProductService struct {
	db        *gorm.DB
	logger    *slog.Logger
	validator *validation.Validator
}

// NewProductService creates a product service.
func NewProductService(db *gorm.DB, logger *slog.Logger) *ProductService {
	return &ProductService{
		db:        db,
		logger:    logger,
		validator: validation.New(),
	}
}

// List returns the products the principal is entitled to see, newest
// first, each annotated with its active version label.
func (s *ProductService) List(ctx context.Context, p policy.Principal) ([]ProductView, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Scopes(policy.ProductScope(p)).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return attachVersionLabels(ctx, s.db, products)
}

// ListByCategory returns the visible products of one category. An empty
// result is a not-found outcome, matching the category pages.
func (s *ProductService) ListByCategory(ctx context.Context, p policy.Principal, categoryID uint) ([]ProductView, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Scopes(policy.ProductScope(p)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperrors.NotFound("no products in this category")
	}
	return attachVersionLabels(ctx, s.db, products)
}

// Get returns one product with its versions and resolved label.
func (s *ProductService) Get(ctx context.Context, id uint) (*ProductView, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Versions").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	return &ProductView{
		Product:       product,
		ActiveVersion: ActiveVersionLabel(product.Versions),
	}, nil
}

// Create validates and persists a new product together with its version
// rows in one transaction. The acting principal becomes the owner.
func (s *ProductService) Create(ctx context.Context, p policy.Principal, in ProductInput) (*ProductView, error) {
	if !p.Authenticated {
		return nil, apperrors.Unauthorized("login required")
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		ImagePath:   in.ImagePath,
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		OwnerID:     &p.UserID,
		IsPublished: in.IsPublished,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return saveVersions(tx, product.ID, in.Versions)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", "id", product.ID, "owner", p.UserID)
	return s.Get(ctx, product.ID)
}

// Update applies the edit form the principal is entitled to. Owners get the
// full form; holders of all three moderation capabilities get the
// restricted one; everyone else is rejected. A product left without an
// owner is claimed by the acting principal. The product and its version
// rows are written in one transaction.
func (s *ProductService) Update(ctx context.Context, p policy.Principal, id uint, in ProductInput) (*ProductView, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}

	form, err := policy.EditForm(p, &product)
	if err != nil {
		return nil, err
	}

	switch form {
	case policy.FormOwner:
		if err := s.validator.Validate(in); err != nil {
			return nil, err
		}
		product.Name = in.Name
		product.Description = in.Description
		product.ImagePath = in.ImagePath
		product.CategoryID = in.CategoryID
		product.Price = in.Price
		product.IsPublished = in.IsPublished
	case policy.FormModerator:
		restricted := moderatorInput{
			Description: in.Description,
			CategoryID:  in.CategoryID,
			IsPublished: in.IsPublished,
		}
		if err := s.validator.Validate(restricted); err != nil {
			return nil, err
		}
		product.Description = restricted.Description
		product.CategoryID = restricted.CategoryID
		product.IsPublished = restricted.IsPublished
	}

	if product.OwnerID == nil {
		product.OwnerID = &p.UserID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return saveVersions(tx, product.ID, in.Versions)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, product.ID)
}

// Delete removes a product and its versions. Only the owner or a full
// catalog moderator may delete.
func (s *ProductService) Delete(ctx context.Context, p policy.Principal, id uint) error {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("product not found")
	}
	if err != nil {
		return err
	}

	if !policy.CanDelete(p, &product) {
		return apperrors.Forbidden("you may not delete this product")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

// saveVersions persists inline version rows against the product inside the
// caller's transaction: rows with an ID update in place, the rest append.
// A row ID belonging to another product is rejected, the same way an inline
// form row is scoped to its parent.
func saveVersions(tx *gorm.DB, productID uint, inputs []VersionInput) error {
	for _, in := range inputs {
		if in.ID != 0 {
			var existing models.ProductVersion
			err := tx.First(&existing, in.ID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("unknown version row")
			}
			if err != nil {
				return err
			}
			if existing.ProductID != productID {
				return apperrors.Validation("version belongs to another product")
			}
		}
		version := models.ProductVersion{
			ID:            in.ID,
			ProductID:     productID,
			VersionNumber: in.VersionNumber,
			VersionName:   in.VersionName,
			IsActive:      in.IsActive,
		}
		if err := tx.Save(&version).Error; err != nil {
			return err
		}
	}
	return nil
}
