package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/estatehub/internal/middleware"
)

// Router groups every handler mounted by RegisterRoutes.
type Router struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Listings *ListingHandler
	Reports  *ReportHandler
	Profiles *ProfileHandler
	// Admins authorizes the /admin group against stored profiles.
	Admins middleware.ProfileLookup
}

// RegisterRoutes mounts the health endpoints and the /api/v1 API on router.
// Authentication middleware must already be installed.
func RegisterRoutes(router *gin.Engine, r Router) {
	router.GET("/health", r.Health.Health)
	router.GET("/health/ready", r.Health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", r.Health.Info)
		v1.POST("/auth/session", r.Auth.CreateSession)

		properties := v1.Group("/properties")
		{
			properties.GET("", r.Listings.List)
			properties.GET("/:id", r.Listings.Get)

			owned := properties.Group("", middleware.RequireAuthenticated())
			owned.POST("", r.Listings.Create)
			owned.PATCH("/:id", r.Listings.Update)
			owned.POST("/:id/discount", r.Listings.ApplyDiscount)
			owned.DELETE("/:id/discount", r.Listings.ResetDiscount)
			owned.POST("/:id/reviews", r.Listings.AddReview)
			owned.POST("/:id/reports", r.Reports.File)
			owned.POST("/:id/bookings", r.Profiles.Book)
		}

		me := v1.Group("/me", middleware.RequireAuthenticated())
		{
			me.GET("", r.Profiles.Me)
			me.PATCH("", r.Profiles.UpdateMe)
			me.GET("/saved", r.Profiles.Saved)
			me.POST("/saved/:propertyId", r.Profiles.ToggleSaved)
			me.POST("/liked/:propertyId", r.Profiles.ToggleLiked)
			me.GET("/bookings", r.Profiles.Bookings)
			me.GET("/notifications", r.Profiles.Notifications)
			me.GET("/listings", r.Listings.Mine)
		}

		admin := v1.Group("/admin", middleware.RequireAdmin(r.Admins))
		{
			admin.GET("/properties/pending", r.Listings.Pending)
			admin.GET("/properties/live", r.Listings.Live)
			admin.POST("/properties/:id/approve", r.Listings.Approve)
			admin.POST("/properties/:id/reject", r.Listings.Reject)
			admin.DELETE("/properties/:id", r.Listings.Remove)
			admin.GET("/reports", r.Reports.List)
			admin.POST("/reports/:id/adjudicate", r.Reports.Adjudicate)
			admin.POST("/users/:id/ban", r.Profiles.ToggleBan)
		}
	}
}
