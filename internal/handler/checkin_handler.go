package handler

import (
	"net/http"
	"strconv"

	"taptap/internal/domain"
	"taptap/internal/middleware"
	"taptap/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckinHandler struct {
	checkinSvc *service.CheckinService
}

func NewCheckinHandler(checkinSvc *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinSvc: checkinSvc}
}

// Create validates proximity and checks the user in. Coordinates must come
// from a fresh device fix; callers should re-acquire location right before
// the request.
func (h *CheckinHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		VenueID   uint     `json:"venue_id" binding:"required"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkin, err := h.checkinSvc.RequestCheckIn(userID, req.VenueID, req.Latitude, req.Longitude)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkin)
}

// Leave deactivates the user's check-in at the venue; a no-op when they are
// not checked in there.
func (h *CheckinHandler) Leave(c *gin.Context) {
	userID := middleware.GetUserID(c)
	venueID, _ := strconv.ParseUint(c.Param("venue_id"), 10, 64)
	if err := h.checkinSvc.Leave(userID, uint(venueID)); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me returns the caller's active check-in, if any.
func (h *CheckinHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	checkin, err := h.checkinSvc.ActiveCheckin(userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if checkin == nil {
		c.JSON(http.StatusOK, gin.H{"checked_in": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checked_in": true, "checkin": checkin})
}

// Reconcile is called on device location updates. If the user drifted past
// the drift radius they are auto-checked-out and told so in the response.
func (h *CheckinHandler) Reconcile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		serviceError(c, domain.ErrLocationUnavailable)
		return
	}
	left, err := h.checkinSvc.ReconcilePresence(userID, *req.Latitude, *req.Longitude)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auto_checked_out": left})
}
