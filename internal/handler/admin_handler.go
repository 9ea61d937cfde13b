package handler

import (
	"net/http"
	"strconv"

	"taptap/internal/repository"
	"taptap/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	users      *repository.UserRepository
	checkinSvc *service.CheckinService
}

func NewAdminHandler(users *repository.UserRepository, checkinSvc *service.CheckinService) *AdminHandler {
	return &AdminHandler{users: users, checkinSvc: checkinSvc}
}

// Ban flags or unflags a user. Banning also clears any active check-in so a
// banned user does not linger in venue presence.
func (h *AdminHandler) Ban(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Banned *bool `json:"banned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.SetBanned(uint(userID), *req.Banned); err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	if *req.Banned {
		if _, err := h.checkinSvc.ForceCheckout(uint(userID)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
