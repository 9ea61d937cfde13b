package handler

import (
	"errors"
	"math"
	"net/http"

	"taptap/internal/domain"

	"github.com/gin-gonic/gin"
)

// serviceError maps domain errors to HTTP responses. Duplicate actions are
// handled by callers (they are 200s), everything else lands here.
func serviceError(c *gin.Context, err error) {
	var tooFar *domain.TooFarError
	switch {
	case errors.As(err, &tooFar):
		body := gin.H{"error": "too far from venue", "limit_km": tooFar.LimitKm}
		if !math.IsInf(tooFar.DistanceKm, 1) {
			body["distance_km"] = tooFar.DistanceKm
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrLocationUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "location unavailable"})
	case errors.Is(err, domain.ErrPrecondition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error, try again"})
	}
}
