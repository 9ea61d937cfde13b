package handler

import (
	"errors"
	"net/http"
	"strconv"

	"taptap/internal/domain"
	"taptap/internal/middleware"
	"taptap/internal/service"

	"github.com/gin-gonic/gin"
)

type PingHandler struct {
	pingSvc *service.PingService
}

func NewPingHandler(pingSvc *service.PingService) *PingHandler {
	return &PingHandler{pingSvc: pingSvc}
}

// Create sends a ping (tap) to another user at the same venue. A reverse
// pending ping from the recipient turns both into a match. Re-tapping an
// open pair is a no-op that returns the existing ping.
func (h *PingHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ToUserID uint `json:"to_user_id" binding:"required"`
		VenueID  uint `json:"venue_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ping, matched, err := h.pingSvc.SendPing(userID, req.ToUserID, req.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAction) {
			c.JSON(http.StatusOK, gin.H{"ping": ping, "is_match": matched})
			return
		}
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ping": ping, "is_match": matched})
}

// Confirm records whether a matched pair actually met. Only the ping's
// recipient may answer; answering the same ping again is a no-op.
func (h *PingHandler) Confirm(c *gin.Context) {
	userID := middleware.GetUserID(c)
	pingID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req struct {
		Confirmed *bool  `json:"confirmed" binding:"required"`
		Feedback  string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ping, err := h.pingSvc.ConfirmMeeting(uint(pingID), userID, *req.Confirmed, req.Feedback)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAction) {
			c.JSON(http.StatusOK, gin.H{"ping": ping})
			return
		}
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ping": ping})
}

// Activity lists the caller's recent ping history, one entry per
// counterpart, newest first.
func (h *PingHandler) Activity(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entries, err := h.pingSvc.ListActivity(userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
