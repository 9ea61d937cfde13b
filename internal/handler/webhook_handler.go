package handler

import (
	"crypto/subtle"
	"net/http"

	"taptap/internal/repository"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	venues *repository.VenueRepository
	secret string
}

func NewWebhookHandler(venues *repository.VenueRepository, secret string) *WebhookHandler {
	return &WebhookHandler{venues: venues, secret: secret}
}

// Promotion is called by the billing side when a venue's paid promotion
// starts or lapses. Authenticated by a shared secret header, not user JWT.
func (h *WebhookHandler) Promotion(c *gin.Context) {
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Webhook-Secret")), []byte(h.secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}
	var req struct {
		VenueID  uint  `json:"venue_id" binding:"required"`
		Promoted *bool `json:"promoted" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.venues.SetPromoted(req.VenueID, *req.Promoted); err != nil {
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
