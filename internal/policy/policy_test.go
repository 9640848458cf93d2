package policy

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"naomitex/internal/apperrors"
	mydb "naomitex/internal/db"
	"naomitex/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mydb.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, caps ...models.Capability) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "irrelevant",
		IsActive:     true,
		Capabilities: caps,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, owner *models.User, published bool, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		Base:        models.Base{CreatedAt: createdAt},
		Name:        name,
		Price:       100,
		IsPublished: published,
	}
	if owner != nil {
		product.OwnerID = &owner.ID
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func listNames(t *testing.T, db *gorm.DB, p Principal) []string {
	t.Helper()
	var products []models.Product
	require.NoError(t, db.Scopes(ProductScope(p)).Find(&products).Error)
	names := make([]string, len(products))
	for i, prod := range products {
		names[i] = prod.Name
	}
	return names
}

func TestProductScopeAnonymous(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	createProduct(t, db, "published", owner, true, base)
	createProduct(t, db, "hidden", owner, false, base.Add(time.Hour))

	assert.Equal(t, []string{"published"}, listNames(t, db, Anonymous()))
}

func TestProductScopeAuthenticated(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	createProduct(t, db, "published", other, true, base)
	createProduct(t, db, "mine-unpublished", owner, false, base.Add(time.Hour))
	createProduct(t, db, "theirs-unpublished", other, false, base.Add(2*time.Hour))

	got := listNames(t, db, ForUser(owner))
	assert.Equal(t, []string{"mine-unpublished", "published"}, got)
}

func TestProductScopeModerator(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	// Listing only requires cancel_publication, not the full moderation set.
	moderator := createUser(t, db, "mod@example.com", models.CapCancelPublication)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	createProduct(t, db, "old-hidden", owner, false, base)
	createProduct(t, db, "new-published", owner, true, base.Add(time.Hour))

	got := listNames(t, db, ForUser(moderator))
	assert.Equal(t, []string{"new-published", "old-hidden"}, got)
}

func TestProductScopeOrderingStable(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Same timestamp: insertion order decides.
	createProduct(t, db, "first", owner, true, at)
	createProduct(t, db, "second", owner, true, at)
	createProduct(t, db, "newest", owner, true, at.Add(time.Hour))

	got := listNames(t, db, Anonymous())
	assert.Equal(t, []string{"newest", "first", "second"}, got)
}

func TestPostScope(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, "manager@example.com", models.CapAddPost, models.CapChangePost)
	half := createUser(t, db, "half@example.com", models.CapAddPost)

	require.NoError(t, db.Create(&models.Post{Title: "visible", Text: "t", IsPublished: true}).Error)
	require.NoError(t, db.Create(&models.Post{Title: "draft", Text: "t", IsPublished: false}).Error)

	count := func(p Principal) int {
		var posts []models.Post
		require.NoError(t, db.Scopes(PostScope(p)).Find(&posts).Error)
		return len(posts)
	}

	assert.Equal(t, 1, count(Anonymous()))
	assert.Equal(t, 1, count(ForUser(half)), "both blog capabilities are required")
	assert.Equal(t, 2, count(ForUser(manager)))
}

func TestEditForm(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	moderator := createUser(t, db, "mod@example.com",
		models.CapChangeCategory, models.CapChangeDescription, models.CapCancelPublication)
	partial := createUser(t, db, "partial@example.com", models.CapCancelPublication)

	product := createProduct(t, db, "item", owner, true, time.Now())

	form, err := EditForm(ForUser(owner), product)
	require.NoError(t, err)
	assert.Equal(t, FormOwner, form)

	form, err = EditForm(ForUser(moderator), product)
	require.NoError(t, err)
	assert.Equal(t, FormModerator, form)

	_, err = EditForm(ForUser(other), product)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = EditForm(ForUser(partial), product)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden),
		"one capability out of three is not enough")

	_, err = EditForm(Anonymous(), product)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestEditFormOwnerlessProduct(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "user@example.com")
	orphan := createProduct(t, db, "orphan", nil, true, time.Now())

	_, err := EditForm(ForUser(user), orphan)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
