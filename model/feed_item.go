package model

import (
	"time"
)

/*

FeedItem is the denormalized read projection of one public curriculum, as
served by the public feed and stored in the feed cache.

ItemID: curriculum id, unique and immutable
Title, OwnerID, OwnerName: curriculum title and owner
TotalChildCount: number of weeks
TotalSubChildCount: number of lessons across all weeks
CreatedAt, UpdatedAt: UTC timestamps of the curriculum
Score: ranking score, always ScoreOf(UpdatedAt)
CategoryID, CategoryName, CategoryColor: nil when uncategorized
Tags: tag names ordered by name, never nil

A cached FeedItem is a snapshot. It is never patched in place, any change is
a full overwrite.
*/

type FeedItem struct {
	ItemID             string
	Title              string
	OwnerID            string
	OwnerName          string
	TotalChildCount    int
	TotalSubChildCount int
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Score              float64
	CategoryID         *string
	CategoryName       *string
	CategoryColor      *string
	Tags               []string
}

// ScoreOf converts an update time into the ranking score: fractional unix
// seconds, so that more recently updated items rank higher.
func ScoreOf(updatedAt time.Time) float64 {
	return float64(updatedAt.UnixNano()) / float64(time.Second)
}

// FeedCategory is the category part of a FeedItem, as resolved from the
// primary store.
type FeedCategory struct {
	Id    string
	Name  string
	Color string
}

// NewFeedItem builds a FeedItem from a curriculum row with User and
// WeekSchedules loaded, its category (nil when uncategorized) and its tags.
func NewFeedItem(c *Curriculum, category *FeedCategory, tags []string) *FeedItem {
	item := &FeedItem{
		ItemID:             c.Id,
		Title:              c.Title,
		OwnerID:            c.UserID,
		OwnerName:          c.User.Name,
		TotalChildCount:    c.TotalWeeks(),
		TotalSubChildCount: c.TotalLessons(),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Tags:               tags,
	}
	if category != nil {
		id, name, color := category.Id, category.Name, category.Color
		item.CategoryID = &id
		item.CategoryName = &name
		item.CategoryColor = &color
	}
	return item.Normalize()
}

// Normalize puts the item into canonical form: UTC times without monotonic
// reading, non-nil tags and a score derived from UpdatedAt. It returns
// the receiver for chaining.
func (f *FeedItem) Normalize() *FeedItem {
	f.CreatedAt = f.CreatedAt.UTC().Round(0)
	f.UpdatedAt = f.UpdatedAt.UTC().Round(0)
	if f.Tags == nil {
		f.Tags = []string{}
	}
	f.Score = ScoreOf(f.UpdatedAt)
	return f
}

func (f *FeedItem) HasCategory() bool {
	return f.CategoryID != nil
}
