package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// respondError writes the {message, error} body used by every endpoint.
func respondError(c *gin.Context, status int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

// respondCreateError maps validation failures to 400 and anything else to 500.
func respondCreateError(c *gin.Context, entity string, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields for " + entity,
			"error":   verr.Error(),
			"missing": nonNil(verr.Missing),
			"invalid": nonNil(verr.Invalid),
		})
		return
	}
	respondError(c, http.StatusInternalServerError, "Failed to create "+entity, err)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
