package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outagedesk/outage-server/config"
)

func HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"message": "Service is healthy",
		"db":      "ok",
	}

	if config.DB == nil {
		response["status"] = "error"
		response["db"] = "error: not connected"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		response["status"] = "error"
		response["db"] = "error: cannot get DB instance"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response["status"] = "error"
		response["db"] = "error: cannot connect to DB"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
