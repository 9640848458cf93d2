package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"naomitex/internal/catalog"
)

func (h *Handlers) listProducts(c *gin.Context) {
	items, err := h.products.List(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handlers) getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handlers) listCategories(c *gin.Context) {
	items, err := h.categories.Categories(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handlers) listByCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	items, err := h.products.ListByCategory(c.Request.Context(), currentPrincipal(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handlers) getContacts(c *gin.Context) {
	contacts, err := h.contacts.Get(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *Handlers) createProduct(c *gin.Context) {
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.products.Create(c.Request.Context(), currentPrincipal(c), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handlers) updateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in catalog.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.products.Update(c.Request.Context(), currentPrincipal(c), id, in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handlers) deleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), currentPrincipal(c), id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// idParam parses the :id route segment; a non-numeric id is a not-found
// outcome, like an unroutable URL.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
