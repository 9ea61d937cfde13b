package router

import (
	"log"
	"net/http"
	"time"

	"taptap/config"
	"taptap/internal/handler"
	"taptap/internal/middleware"
	"taptap/internal/repository"
	"taptap/internal/service"
	"taptap/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup wires repositories, services, and handlers into the HTTP surface.
// The returned sweep service is started by main on its own goroutine.
func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *service.SweepService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// No per-request logger: location reconcile and activity touches are
	// chatty, and the counters at /metrics cover traffic volume.

	// Repositories
	userRepo := repository.NewUserRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	pingRepo := repository.NewPingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(rdb)

	presenceHub := ws.NewPresenceHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[fcm] push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[fcm] push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[fcm] push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc)
	checkinSvc := service.NewCheckinService(userRepo, venueRepo, checkinRepo, notifSvc, presenceHub)
	pingSvc := service.NewPingService(userRepo, checkinRepo, pingRepo, notifSvc, presenceHub)
	sweepSvc := service.NewSweepService(checkinRepo, venueRepo, activityRepo, notifSvc, presenceHub)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, checkinSvc, activityRepo)
	meHandler := handler.NewMeHandler(userRepo)
	venueHandler := handler.NewVenueHandler(venueRepo, checkinSvc)
	checkinHandler := handler.NewCheckinHandler(checkinSvc)
	pingHandler := handler.NewPingHandler(pingSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(userRepo, checkinSvc)
	webhookHandler := handler.NewWebhookHandler(venueRepo, cfg.Webhook.PromotionSecret)

	authMw := middleware.AuthRequired(&cfg.JWT)
	activityMw := middleware.TrackActivity(activityRepo)
	// Per-user budget for the authed API; a much tighter per-IP budget for
	// credential and webhook endpoints, which see brute-force traffic.
	apiLimit := middleware.RateLimit(middleware.NewThrottle(120, time.Minute))
	anonLimit := middleware.RateLimit(middleware.NewThrottle(15, time.Minute))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(anonLimit)
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMw, authHandler.Logout)
		}

		authed := api.Group("")
		authed.Use(authMw, apiLimit, activityMw)
		{
			authed.GET("/venues", venueHandler.List)
			authed.GET("/venues/:id", venueHandler.Get)
			authed.GET("/venues/:id/presence", venueHandler.Presence)

			authed.POST("/checkins", checkinHandler.Create)
			authed.DELETE("/checkins/:venue_id", checkinHandler.Leave)
			authed.POST("/location", checkinHandler.Reconcile)

			authed.POST("/pings", pingHandler.Create)
			authed.POST("/pings/:id/confirm", pingHandler.Confirm)

			me := authed.Group("/me")
			{
				me.GET("/profile", meHandler.Get)
				me.PATCH("/profile", meHandler.Update)
				me.POST("/fcm-token", meHandler.SetFCMToken)
				me.GET("/xp", meHandler.XPHistory)
				me.GET("/checkin", checkinHandler.Me)
				me.GET("/activity", pingHandler.Activity)
				me.GET("/notifications", notificationHandler.List)
				me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.AdminRequired())
			{
				admin.POST("/users/:id/ban", adminHandler.Ban)
			}
		}

		api.POST("/webhooks/promotion", anonLimit, webhookHandler.Promotion)
	}

	r.GET("/ws/presence", ws.UpgradePresenceWS(&cfg.JWT, presenceHub))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r, sweepSvc
}
