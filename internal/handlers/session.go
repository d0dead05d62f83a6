package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"edumaster/web/internal/guard"
	"edumaster/web/internal/models"
	"edumaster/web/internal/session"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	FirstName       string      `json:"firstName" binding:"required"`
	LastName        string      `json:"lastName" binding:"required"`
	Email           string      `json:"email" binding:"required"`
	Password        string      `json:"password" binding:"required"`
	ConfirmPassword string      `json:"confirmPassword"`
	Role            models.Role `json:"role"`
	Phone           string      `json:"phone"`
	Bio             string      `json:"bio"`
}

type authResult struct {
	User     models.User `json:"user"`
	Redirect string      `json:"redirect"`
}

func (h HandlerSet) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

// Login answers with the landing page for the user's role; navigation is the
// caller's job.
func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	user, err := h.session.Login(c.Request.Context(), models.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		h.authFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, authResult{User: user, Redirect: guard.LandingFor(user.Role)})
}

func (h HandlerSet) RegisterAccount(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}

	user, err := h.session.Register(c.Request.Context(), models.RegisterRequest{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		Phone:           req.Phone,
		Bio:             req.Bio,
	})
	if err != nil {
		h.authFailed(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResult{User: user, Redirect: guard.LandingFor(user.Role)})
}

func (h HandlerSet) authFailed(c *gin.Context, err error) {
	var sessErr *session.Error
	if errors.As(err, &sessErr) {
		respondError(c, sessErr.Err, sessErr.Message)
		return
	}
	respondError(c, err, "Authentication failed")
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"redirect": guard.LogoutLanding})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		var sessErr *session.Error
		message := "Token refresh failed"
		if errors.As(err, &sessErr) {
			message = sessErr.Message
		}
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message, "redirect": h.cfg.Frontend.LoginPath})
		return
	}
	c.JSON(http.StatusOK, h.session.State())
}

func (h HandlerSet) ClearError(c *gin.Context) {
	h.session.ClearError()
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.session.UpdateUser(patch))
}

func (h HandlerSet) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email is required"})
		return
	}

	available, err := h.session.CheckEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to check email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email, "available": available})
}
