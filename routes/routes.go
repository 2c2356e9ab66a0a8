package routes

import (
	"github.com/gin-gonic/gin"

	"go-venuetraffic/decision"
	"go-venuetraffic/fusion"
	"go-venuetraffic/handlers"
	"go-venuetraffic/store"
)

func SetupRouter(pipeline *fusion.Pipeline, generator *decision.Generator, st *store.Store) *gin.Engine {
	r := gin.Default()

	r.GET("/", handlers.GetStatus)

	r.POST("/analyze", func(c *gin.Context) {
		handlers.AnalyzeVenue(c, pipeline)
	})
	r.POST("/output", func(c *gin.Context) {
		handlers.GenerateOutput(c, generator)
	})

	r.GET("/inputs", func(c *gin.Context) {
		handlers.GetInputs(c, st)
	})
	r.GET("/outputs", func(c *gin.Context) {
		handlers.GetOutputs(c, st)
	})
	r.GET("/data", func(c *gin.Context) {
		handlers.GetData(c, st)
	})
	r.GET("/output.json", func(c *gin.Context) {
		handlers.GetRawOutput(c, st)
	})
	r.GET("/map", handlers.GetMap)

	return r
}
