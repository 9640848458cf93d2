package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"naomitex/internal/users"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetInput struct {
	Email string `json:"email"`
}

func (h *Handlers) register(c *gin.Context) {
	var in users.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.accounts.Register(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handlers) confirmEmail(c *gin.Context) {
	user, err := h.accounts.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.accounts.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) resetPassword(c *gin.Context) {
	var in resetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), in.Email); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) updateProfile(c *gin.Context) {
	var in users.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.accounts.UpdateProfile(c.Request.Context(), currentPrincipal(c).UserID, in)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// A pending email change deactivates the account; drop the session so
	// the next login happens after confirmation.
	if !user.IsActive {
		sess := sessions.Default(c)
		sess.Clear()
		_ = sess.Save()
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) confirmEmailChange(c *gin.Context) {
	user, err := h.accounts.ConfirmEmailChange(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
