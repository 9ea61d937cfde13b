package handler

import (
	"errors"
	"net/http"

	"taptap/internal/middleware"
	"taptap/internal/repository"
	"taptap/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc      *service.AuthService
	checkinSvc   *service.CheckinService
	activityRepo *repository.ActivityRepository
}

func NewAuthHandler(authSvc *service.AuthService, checkinSvc *service.CheckinService, activityRepo *repository.ActivityRepository) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, checkinSvc: checkinSvc, activityRepo: activityRepo}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Handle      string `json:"handle" binding:"required,min=3,max=64"`
		Password    string `json:"password" binding:"required,min=8"`
		DisplayName string `json:"display_name"`
		Gender      string `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
		Seeking     string `json:"seeking" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.authSvc.Register(req.Email, req.Handle, req.Password, req.DisplayName, req.Gender, req.Seeking)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) || errors.Is(err, service.ErrHandleExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBanned) {
			c.JSON(http.StatusForbidden, gin.H{"error": "account banned"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	access, refresh, err := h.authSvc.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

// Logout ends the session: check-in cleared, idle marker dropped.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	_, _ = h.checkinSvc.ForceCheckout(userID)
	_ = h.activityRepo.Clear(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
