package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/outagedesk/outage-server/config"
	"github.com/outagedesk/outage-server/models"
)

// LoadJob loads the job named by :id into the context.
func LoadJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid job id"})
			return
		}

		var job models.OutageJob
		if err := config.DB.First(&job, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "job not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "database error"})
			return
		}

		c.Set(CtxJob, job)
		c.Next()
	}
}

// RequireOpenJob stops workflow actions on a closed job. Must run after LoadJob.
func RequireOpenJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		job := c.MustGet(CtxJob).(models.OutageJob)
		if job.IsClosed {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "job is closed"})
			return
		}
		c.Next()
	}
}
