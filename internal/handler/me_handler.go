package handler

import (
	"net/http"
	"strconv"

	"taptap/internal/domain"
	"taptap/internal/middleware"
	"taptap/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	users *repository.UserRepository
}

func NewMeHandler(users *repository.UserRepository) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.users.GetByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Update edits the caller's profile. Only fields present in the body change.
func (h *MeHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Handle      *string `json:"handle" binding:"omitempty,min=3,max=64"`
		DisplayName *string `json:"display_name"`
		Gender      *string `json:"gender"`
		Seeking     *string `json:"seeking"`
		Bio         *string `json:"bio"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	if req.Gender != nil && !domain.ValidGender(*req.Gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gender"})
		return
	}
	if req.Seeking != nil && !domain.ValidGender(*req.Seeking) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seeking value"})
		return
	}
	if req.Handle != nil && *req.Handle != u.Handle {
		if _, err := h.users.GetByHandle(*req.Handle); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "handle already taken"})
			return
		} else if !repository.IsNotFound(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
			return
		}
		u.Handle = *req.Handle
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Gender != nil {
		u.Gender = *req.Gender
	}
	if req.Seeking != nil {
		u.Seeking = *req.Seeking
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// SetFCMToken registers the device token used for push notifications.
func (h *MeHandler) SetFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.SetFCMToken(userID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// XPHistory lists the caller's XP awards, newest first.
func (h *MeHandler) XPHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	events, err := h.users.ListXPEvents(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"xp": u.XP, "events": events})
}
