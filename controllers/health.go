package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/connectivity
func Connectivity(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	RespondSuccess(c, gin.H{"online": s.Prober.IsOnline(c.Request.Context())})
}
