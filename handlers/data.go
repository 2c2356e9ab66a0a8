package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-venuetraffic/store"
)

// GetInputs handles GET /inputs: the full observation log, verbatim.
func GetInputs(c *gin.Context, st *store.Store) {
	c.JSON(http.StatusOK, st.Observations())
}

// GetOutputs handles GET /outputs: the full decision log, verbatim.
func GetOutputs(c *gin.Context, st *store.Store) {
	c.JSON(http.StatusOK, st.Decisions())
}

// GetData handles GET /data: both logs in one payload.
func GetData(c *gin.Context, st *store.Store) {
	c.JSON(http.StatusOK, gin.H{
		"inputs":  st.Observations(),
		"outputs": st.Decisions(),
	})
}

// GetRawOutput handles GET /output.json: the decision log file as-is.
func GetRawOutput(c *gin.Context, st *store.Store) {
	c.File(st.OutputPath())
}

// GetMap handles GET /map: the dashboard page.
func GetMap(c *gin.Context) {
	c.File("static/map.html")
}

// GetStatus handles GET /: the liveness payload.
func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Smart Venue Traffic Intelligence API is running",
	})
}
