package server

import (
	"fmt"
	"time"

	"github.com/Luismorlan/publicfeed/feed"
)

const (
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorInternalError = "INTERNAL_ERROR"
)

type FeedItemResponse struct {
	feed.FeedItemDTO
	// Human readable age of the last update, e.g. "3 hours ago".
	TimeAgo string `json:"time_ago"`
}

type FeedPageResponse struct {
	TotalCount   int64              `json:"total_count"`
	Page         int                `json:"page"`
	ItemsPerPage int                `json:"items_per_page"`
	HasNext      bool               `json:"has_next"`
	Items        []FeedItemResponse `json:"items"`
}

func NewFeedPageResponse(page *feed.FeedPage, now time.Time) FeedPageResponse {
	res := FeedPageResponse{
		TotalCount:   page.TotalCount,
		Page:         page.Page,
		ItemsPerPage: page.ItemsPerPage,
		HasNext:      page.HasNext,
		Items:        make([]FeedItemResponse, 0, len(page.Items)),
	}
	for _, item := range page.Items {
		res.Items = append(res.Items, FeedItemResponse{
			FeedItemDTO: item,
			TimeAgo:     TimeAgo(now, item.UpdatedAt),
		})
	}
	return res
}

// TimeAgo renders the elapsed time since t in the coarsest whole unit.
func TimeAgo(now time.Time, t time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed >= 24*time.Hour:
		return plural(int(elapsed/(24*time.Hour)), "day")
	case elapsed > time.Hour:
		return plural(int(elapsed/time.Hour), "hour")
	case elapsed > time.Minute:
		return plural(int(elapsed/time.Minute), "minute")
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
