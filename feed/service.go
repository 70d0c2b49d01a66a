package feed

import (
	"context"
	"strings"
	"time"

	"github.com/Luismorlan/publicfeed/model"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// FeedQuery is the caller facing form of a feed read. Empty strings mean no
// constraint.
type FeedQuery struct {
	CategoryID   string
	Tags         []string
	SearchQuery  string
	Page         int
	ItemsPerPage int
}

func (q FeedQuery) ToFilter() model.FeedFilter {
	var categoryID, searchQuery *string
	if q.CategoryID != "" {
		categoryID = &q.CategoryID
	}
	if q.SearchQuery != "" {
		searchQuery = &q.SearchQuery
	}
	return model.NewFeedFilter(categoryID, q.Tags, searchQuery, q.Page, q.ItemsPerPage)
}

type FeedItemDTO struct {
	ItemID             string    `json:"curriculum_id"`
	Title              string    `json:"title"`
	OwnerID            string    `json:"owner_id"`
	OwnerName          string    `json:"owner_name"`
	TotalChildCount    int       `json:"total_weeks"`
	TotalSubChildCount int       `json:"total_lessons"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	CategoryName       *string   `json:"category_name"`
	CategoryColor      *string   `json:"category_color"`
	Tags               []string  `json:"tags"`
}

type FeedPage struct {
	TotalCount   int64         `json:"total_count"`
	Page         int           `json:"page"`
	ItemsPerPage int           `json:"items_per_page"`
	HasNext      bool          `json:"has_next"`
	Items        []FeedItemDTO `json:"items"`
}

// FeedService is the entry point for feed reads and cache maintenance.
type FeedService struct {
	repo *FeedRepository
}

func NewFeedService(repo *FeedRepository) *FeedService {
	return &FeedService{repo: repo}
}

func (s *FeedService) GetPublicFeed(ctx context.Context, query FeedQuery) (*FeedPage, error) {
	filter := query.ToFilter()
	total, items, err := s.repo.GetPublicFeed(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{
		TotalCount:   total,
		Page:         filter.Page,
		ItemsPerPage: filter.ItemsPerPage,
		HasNext:      int64(filter.Page*filter.ItemsPerPage) < total,
		Items:        make([]FeedItemDTO, 0, len(items)),
	}
	for _, item := range items {
		var dto FeedItemDTO
		if err := copier.Copy(&dto, item); err != nil {
			return nil, errors.Wrap(err, "copy feed item "+item.ItemID)
		}
		if dto.Tags == nil {
			dto.Tags = []string{}
		}
		page.Items = append(page.Items, dto)
	}
	return page, nil
}

// RefreshFeedItem evicts a single item, the next read reloads it.
func (s *FeedService) RefreshFeedItem(ctx context.Context, itemId string) {
	s.repo.RemoveFromCache(ctx, itemId)
}

func (s *FeedService) RefreshEntireFeed(ctx context.Context) {
	s.repo.InvalidateAll(ctx)
}

func (s *FeedService) WarmUp(ctx context.Context, limit int) WarmUpReport {
	return s.repo.WarmUp(ctx, limit)
}

func (s *FeedService) CacheStats(ctx context.Context) CacheStats {
	return s.repo.GetCacheStats(ctx)
}

// ParseTags splits a comma separated tag list, dropping blank entries.
func ParseTags(csv string) []string {
	tags := []string{}
	for _, tag := range strings.Split(csv, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
