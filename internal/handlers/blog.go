package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"naomitex/internal/blog"
)

func (h *Handlers) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": posts})
}

func (h *Handlers) viewPost(c *gin.Context) {
	post, err := h.posts.View(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handlers) createPost(c *gin.Context) {
	var in blog.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.posts.Create(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handlers) updatePost(c *gin.Context) {
	var in blog.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.posts.Update(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handlers) deletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
