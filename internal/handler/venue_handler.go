package handler

import (
	"net/http"
	"strconv"

	"taptap/internal/repository"
	"taptap/internal/service"

	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	venues     *repository.VenueRepository
	checkinSvc *service.CheckinService
}

func NewVenueHandler(venues *repository.VenueRepository, checkinSvc *service.CheckinService) *VenueHandler {
	return &VenueHandler{venues: venues, checkinSvc: checkinSvc}
}

// List returns venues, promoted ones first. Supports ?category= filtering
// and limit/offset paging.
func (h *VenueHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := h.venues.List(c.Query("category"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": list})
}

// Get returns a venue with its live presence count.
func (h *VenueHandler) Get(c *gin.Context) {
	venueID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	v, err := h.venues.GetByID(uint(venueID))
	if err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	_, count, err := h.checkinSvc.Presence(uint(venueID))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": v, "presence_count": count})
}

// Presence lists who is currently checked in at a venue.
func (h *VenueHandler) Presence(c *gin.Context) {
	venueID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	list, count, err := h.checkinSvc.Presence(uint(venueID))
	if err != nil {
		serviceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, ci := range list {
		entry := gin.H{"user_id": ci.UserID, "checked_in_at": ci.CreatedAt}
		if ci.User.ID != 0 {
			entry["display_name"] = ci.User.Name()
			entry["avatar_url"] = ci.User.AvatarURL
			entry["gender"] = ci.User.Gender
			entry["bio"] = ci.User.Bio
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "users": out})
}
