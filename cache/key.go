package cache

import (
	"fmt"
)

const (
	DefaultKeyPrefix = "feed"
	DefaultIndexKey  = "feed:public_curriculums"

	itemSegment = "item"
)

// KeyParser builds per-item cache keys of the form
// <prefix><delimiter>item<delimiter><id>.
type KeyParser struct {
	prefix    string
	delimiter string
}

func NewKeyParser(prefix string) KeyParser {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return KeyParser{prefix: prefix, delimiter: ":"}
}

func (k KeyParser) ItemKey(itemId string) string {
	return fmt.Sprintf("%s%s%s%s%s", k.prefix, k.delimiter, itemSegment, k.delimiter, itemId)
}
