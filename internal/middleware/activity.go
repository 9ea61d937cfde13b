package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ActivityToucher refreshes a user's last-interaction marker.
type ActivityToucher interface {
	Touch(ctx context.Context, userID uint) error
}

// TrackActivity resets the idle-logout window on every authenticated request.
// Must run after AuthRequired. Failures are ignored: worst case the user is
// swept out slightly early.
func TrackActivity(activity ActivityToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := GetUserID(c); userID != 0 {
			_ = activity.Touch(c.Request.Context(), userID)
		}
		c.Next()
	}
}
