package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError writes {"error": msg}. Handlers always send fixed messages, never raw errors.
func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
