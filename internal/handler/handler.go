package handler

import (
	"github.com/gin-gonic/gin"

	"opentrees/api/internal/apperr"
)

// respondError writes the JSON error body for a service failure, mapping
// the error kind to its HTTP status. Store failures keep a generic message.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}
