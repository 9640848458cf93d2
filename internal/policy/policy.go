// Package policy decides what a request's principal may see and edit.
// Evaluation is read-only: scopes filter queries, form selection gates
// writes, nothing here mutates state.
package policy

import (
	"gorm.io/gorm"

	"naomitex/internal/apperrors"
	"naomitex/internal/models"
)

// Principal is the acting identity of a request.
type Principal struct {
	UserID        uint
	Authenticated bool
	capabilities  models.CapabilitySet
}

// Anonymous returns the principal of an unauthenticated request.
func Anonymous() Principal {
	return Principal{}
}

// ForUser builds the principal for an authenticated user.
func ForUser(u *models.User) Principal {
	return Principal{
		UserID:        u.ID,
		Authenticated: true,
		capabilities:  u.Capabilities,
	}
}

// Has reports whether the principal holds the capability.
func (p Principal) Has(c models.Capability) bool {
	return p.Authenticated && p.capabilities.Has(c)
}

// IsCatalogModerator reports whether the principal holds all three catalog
// moderation capabilities required for the restricted edit form.
func (p Principal) IsCatalogModerator() bool {
	return p.Has(models.CapChangeCategory) &&
		p.Has(models.CapChangeDescription) &&
		p.Has(models.CapCancelPublication)
}

// IsBlogManager reports whether the principal may see unpublished posts.
func (p Principal) IsBlogManager() bool {
	return p.Has(models.CapAddPost) && p.Has(models.CapChangePost)
}

// Newest-first; equal timestamps keep insertion order.
const createdDesc = "created_at DESC, id ASC"

// ProductScope filters and orders a product query for the principal:
// moderators see everything, authenticated users their own plus published
// items, anonymous visitors published items only.
func ProductScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case p.Has(models.CapCancelPublication):
			return db.Order(createdDesc)
		case p.Authenticated:
			return db.Where("owner_id = ? OR is_published = ?", p.UserID, true).
				Order(createdDesc)
		default:
			return db.Where("is_published = ?", true).Order(createdDesc)
		}
	}
}

// PostScope filters and orders a post query for the principal.
func PostScope(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.IsBlogManager() {
			return db.Order(createdDesc)
		}
		return db.Where("is_published = ?", true).Order(createdDesc)
	}
}

// FormKind selects which edit form a principal gets for a product.
type FormKind int

const (
	// FormOwner exposes every mutable field.
	FormOwner FormKind = iota
	// FormModerator exposes only description, category and is_published.
	FormModerator
)

// EditForm returns the form kind the principal may use on the product, or
// ErrForbidden when neither ownership nor full moderation caps apply.
func EditForm(p Principal, product *models.Product) (FormKind, error) {
	if p.Authenticated && product.OwnerID != nil && *product.OwnerID == p.UserID {
		return FormOwner, nil
	}
	if p.IsCatalogModerator() {
		return FormModerator, nil
	}
	return 0, apperrors.Forbidden("you may not edit this product")
}

// CanDelete reports whether the principal may delete the product: its owner
// or a full catalog moderator.
func CanDelete(p Principal, product *models.Product) bool {
	_, err := EditForm(p, product)
	return err == nil
}
