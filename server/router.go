package server

import (
	"github.com/Luismorlan/publicfeed/feed"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

// NewRouter wires the feed routes with the Logger, Recovery, cors and tracing
// middlewares.
func NewRouter(service *feed.FeedService, serviceName string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(serviceName))

	AddFeedRoutes(router.Group("/feed"), NewFeedHandler(service))
	router.GET("/ping", Ping)

	return router
}

// AddFeedRoutes registers the feed routes on rg. The refresh routes carry no
// auth of their own and must be mounted behind an upstream admin guard.
func AddFeedRoutes(rg *gin.RouterGroup, h *FeedHandler) {
	rg.GET("/public", h.GetPublicFeed)
	rg.POST("/refresh", h.RefreshEntireFeed)
	rg.POST("/refresh/:curriculum_id", h.RefreshFeedItem)
	rg.GET("/cache/stats", h.CacheStats)
}
