package server

import (
	"net/http"
	"time"

	"github.com/Luismorlan/publicfeed/feed"
	. "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/gin-gonic/gin"
)

type feedRequest struct {
	Page         int    `form:"page,default=1" binding:"min=1"`
	ItemsPerPage int    `form:"items_per_page,default=20" binding:"min=1,max=50"`
	CategoryID   string `form:"category_id"`
	Tags         string `form:"tags"`
	Search       string `form:"search"`
}

// FeedHandler exposes feed.FeedService over http.
type FeedHandler struct {
	service *feed.FeedService
	now     func() time.Time
}

func NewFeedHandler(service *feed.FeedService) *FeedHandler {
	return &FeedHandler{service: service, now: time.Now}
}

func (h *FeedHandler) GetPublicFeed(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code": ErrorBadRequest,
			"msg":  err.Error(),
		})
		return
	}

	page, err := h.service.GetPublicFeed(c.Request.Context(), feed.FeedQuery{
		CategoryID:   req.CategoryID,
		Tags:         feed.ParseTags(req.Tags),
		SearchQuery:  req.Search,
		Page:         req.Page,
		ItemsPerPage: req.ItemsPerPage,
	})
	if err != nil {
		Log.WithError(err).Error("fail to read public feed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"code": ErrorInternalError,
			"msg":  "fail to read public feed",
		})
		return
	}

	c.JSON(http.StatusOK, NewFeedPageResponse(page, h.now()))
}

func (h *FeedHandler) RefreshEntireFeed(c *gin.Context) {
	h.service.RefreshEntireFeed(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *FeedHandler) RefreshFeedItem(c *gin.Context) {
	h.service.RefreshFeedItem(c.Request.Context(), c.Param("curriculum_id"))
	c.Status(http.StatusNoContent)
}

func (h *FeedHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CacheStats(c.Request.Context()))
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
