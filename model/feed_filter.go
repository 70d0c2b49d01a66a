package model

import (
	"strings"
)

const (
	DefaultItemsPerPage = 20
	MaxItemsPerPage     = 50
)

// FeedFilter holds the query parameters of a public feed read.
//
// Tags use AND semantics: an item must carry every listed tag. SearchQuery
// matches title or owner name, case-insensitively.
type FeedFilter struct {
	CategoryID   *string
	Tags         []string
	SearchQuery  *string
	Page         int
	ItemsPerPage int
}

// NewFeedFilter returns a normalized filter.
func NewFeedFilter(categoryID *string, tags []string, searchQuery *string, page int, itemsPerPage int) FeedFilter {
	f := FeedFilter{
		CategoryID:   categoryID,
		Tags:         tags,
		SearchQuery:  searchQuery,
		Page:         page,
		ItemsPerPage: itemsPerPage,
	}
	return f.Normalize()
}

// Normalize clamps pagination and drops empty constraints. Page below 1 becomes
// 1. ItemsPerPage of 0 means unset and becomes DefaultItemsPerPage, negative
// values become 1 and values above MaxItemsPerPage are capped. Blank tags are
// removed and duplicates collapsed.
func (f FeedFilter) Normalize() FeedFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.ItemsPerPage == 0:
		f.ItemsPerPage = DefaultItemsPerPage
	case f.ItemsPerPage < 1:
		f.ItemsPerPage = 1
	case f.ItemsPerPage > MaxItemsPerPage:
		f.ItemsPerPage = MaxItemsPerPage
	}

	if f.CategoryID != nil && strings.TrimSpace(*f.CategoryID) == "" {
		f.CategoryID = nil
	}
	if f.SearchQuery != nil && strings.TrimSpace(*f.SearchQuery) == "" {
		f.SearchQuery = nil
	}

	tags := []string{}
	seen := make(map[string]bool)
	for _, tag := range f.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	f.Tags = tags
	return f
}

func (f FeedFilter) Offset() int {
	return (f.Page - 1) * f.ItemsPerPage
}

func (f FeedFilter) Limit() int {
	return f.ItemsPerPage
}

// IsConstrained reports whether the filter narrows the feed beyond paging.
func (f FeedFilter) IsConstrained() bool {
	return f.CategoryID != nil || len(f.Tags) > 0 || f.SearchQuery != nil
}
