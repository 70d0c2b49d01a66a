package feed

import (
	"github.com/Luismorlan/publicfeed/model"
	"github.com/Luismorlan/publicfeed/utils"
)

// MatchesFilter reports whether a cached item satisfies the filter, using
// the same semantics as the primary store query: exact category id, every
// requested tag present, and a case-insensitive substring search over title
// and owner name. Paging fields are ignored.
func MatchesFilter(item *model.FeedItem, filter *model.FeedFilter) bool {
	if filter == nil {
		return true
	}
	if filter.CategoryID != nil {
		if item.CategoryID == nil || *item.CategoryID != *filter.CategoryID {
			return false
		}
	}
	if !utils.ContainsAllStrings(item.Tags, filter.Tags) {
		return false
	}
	if filter.SearchQuery != nil {
		q := *filter.SearchQuery
		if !utils.ContainsFold(item.Title, q) && !utils.ContainsFold(item.OwnerName, q) {
			return false
		}
	}
	return true
}
