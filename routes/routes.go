package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/outagedesk/outage-server/controllers"
	"github.com/outagedesk/outage-server/metrics"
	"github.com/outagedesk/outage-server/middleware"
)

// RouteConfig carries what the route table needs beyond the handlers.
type RouteConfig struct {
	JWTSecret  string
	DocLimiter *middleware.IPRateLimiter
	Metrics    *metrics.Collector
	// FilesDir, if set, is served under /api/files for locally stored documents.
	FilesDir string
}

func SetupRoutes(r *gin.Engine, rc RouteConfig) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)
	if rc.Metrics != nil {
		r.GET("/metrics", gin.WrapH(rc.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(middleware.AuthJWT(rc.JWTSecret))
	{
		jobs := api.Group("/jobs")
		{
			jobs.GET("", controllers.ListJobs)
			jobs.POST("", controllers.CreateJob)
			jobs.GET("/export", controllers.ExportJobs)

			job := jobs.Group("/:id")
			job.Use(middleware.LoadJob())
			{
				job.GET("", controllers.GetJob)
				job.DELETE("", controllers.DeleteJob)
				job.GET("/document", controllers.DownloadDocument)
				job.GET("/social/preview", controllers.PreviewSocial)
			}

			open := job.Group("")
			open.Use(middleware.RequireOpenJob())
			{
				open.PUT("", controllers.UpdateJob)
				open.POST("/nakhon", controllers.NotifyNakhon)
				open.POST("/social/submit", controllers.SubmitSocial)
				open.POST("/social/post", controllers.PostSocial)
				open.POST("/notice", controllers.ScheduleNotice)
				open.POST("/close", controllers.CloseJob)

				doc := []gin.HandlerFunc{}
				if rc.DocLimiter != nil {
					doc = append(doc, middleware.RateLimitByIP(rc.DocLimiter))
				}
				doc = append(doc, controllers.GenerateDocument)
				open.POST("/document", doc...)
			}
		}

		if rc.FilesDir != "" {
			api.Static("/files", rc.FilesDir)
		}
	}
}
