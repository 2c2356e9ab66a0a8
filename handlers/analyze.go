package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-venuetraffic/fusion"
)

// AnalyzeVenue handles POST /analyze: runs the full fusion pipeline for
// one venue and returns the merged observation record.
func AnalyzeVenue(c *gin.Context, pipeline *fusion.Pipeline) {
	var request struct {
		Venue string `json:"venue"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	venue := strings.TrimSpace(request.Venue)
	if venue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Venue name is required"})
		return
	}

	log.Printf("handlers: new analysis request for venue %q", venue)

	record, err := pipeline.Analyze(c.Request.Context(), venue)
	if err != nil {
		if errors.Is(err, fusion.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"detail": fmt.Sprintf("Could not geocode venue: %q. Try a more specific name.", venue),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}
