// Package handlers wires the services to gin routes. Sessions carry the
// logged-in user id; everything else is JSON in, JSON out.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"naomitex/internal/blog"
	"naomitex/internal/catalog"
	"naomitex/internal/users"
)

// Handlers bundles the services behind the routes.
type Handlers struct {
	db         *gorm.DB
	products   *catalog.ProductService
	categories *catalog.CategoryService
	contacts   *catalog.ContactsService
	posts      *blog.Service
	accounts   *users.Service
	logger     *slog.Logger
}

// New creates the handler set.
func New(
	db *gorm.DB,
	products *catalog.ProductService,
	categories *catalog.CategoryService,
	contacts *catalog.ContactsService,
	posts *blog.Service,
	accounts *users.Service,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		db:         db,
		products:   products,
		categories: categories,
		contacts:   contacts,
		posts:      posts,
		accounts:   accounts,
		logger:     logger,
	}
}

// Router builds the gin engine with sessions and all routes.
func (h *Handlers) Router(sessionSecret string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("naomitex_session", store))
	r.Use(h.withPrincipal())

	r.GET("/health", h.health)

	// Catalog.
	r.GET("/", h.listProducts)
	r.GET("/catalog/:id", h.getProduct)
	r.GET("/categories", h.listCategories)
	r.GET("/category/:id/products", h.listByCategory)
	r.GET("/contacts", h.getContacts)
	r.POST("/products", mustLogin(), h.createProduct)
	r.PUT("/products/:id", mustLogin(), h.updateProduct)
	r.DELETE("/products/:id", mustLogin(), h.deleteProduct)

	// Blog.
	r.GET("/posts", h.listPosts)
	r.GET("/posts/:slug", h.viewPost)
	r.POST("/posts", h.createPost)
	r.PUT("/posts/:slug", h.updatePost)
	r.DELETE("/posts/:slug", h.deletePost)

	// Accounts.
	r.POST("/register", h.register)
	r.GET("/email_confirm/:token", h.confirmEmail)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)
	r.POST("/reset_password", h.resetPassword)
	r.PUT("/profile", mustLogin(), h.updateProfile)
	r.GET("/change_email/:token", h.confirmEmailChange)

	return r
}

func (h *Handlers) health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
