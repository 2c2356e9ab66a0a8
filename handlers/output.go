package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-venuetraffic/decision"
	"go-venuetraffic/store"
)

// GenerateOutput handles POST /output: derives a decision record from the
// latest observation and returns it.
func GenerateOutput(c *gin.Context, generator *decision.Generator) {
	record, err := generator.Generate(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoObservations) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "No observations recorded yet. Run /analyze first."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}
