// Package api provides implementation of pkgsel REST API
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pkgsel/pkgsel/pkgsel"
)

// GET /api/version
func apiVersion(c *gin.Context) {
	c.JSON(200, gin.H{"Version": pkgsel.Version})
}

// truthy interprets boolean query parameters
func truthy(value string) bool {
	switch value {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
