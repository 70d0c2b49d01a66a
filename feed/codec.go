package feed

import (
	"time"

	"github.com/Luismorlan/publicfeed/model"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const codecVersion = 1

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	// ErrCorruptPayload is returned when a cached payload cannot be decoded
	// into a FeedItem. Callers treat it as a cache miss.
	ErrCorruptPayload = errors.New("corrupt feed item payload")
)

// encodedFeedItem is the wire form of a FeedItem in the cache. The score is
// not stored, it is derived from UpdatedAt on decode.
type encodedFeedItem struct {
	Version            int      `json:"v"`
	ItemID             string   `json:"id"`
	Title              string   `json:"title"`
	OwnerID            string   `json:"owner_id"`
	OwnerName          string   `json:"owner_name"`
	TotalChildCount    int      `json:"total_weeks"`
	TotalSubChildCount int      `json:"total_lessons"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
	CategoryID         *string  `json:"category_id"`
	CategoryName       *string  `json:"category_name"`
	CategoryColor      *string  `json:"category_color"`
	Tags               []string `json:"tags"`
}

func EncodeFeedItem(item *model.FeedItem) (string, error) {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(encodedFeedItem{
		Version:            codecVersion,
		ItemID:             item.ItemID,
		Title:              item.Title,
		OwnerID:            item.OwnerID,
		OwnerName:          item.OwnerName,
		TotalChildCount:    item.TotalChildCount,
		TotalSubChildCount: item.TotalSubChildCount,
		CreatedAt:          item.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:          item.UpdatedAt.UTC().Format(time.RFC3339Nano),
		CategoryID:         item.CategoryID,
		CategoryName:       item.CategoryName,
		CategoryColor:      item.CategoryColor,
		Tags:               tags,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode feed item")
	}
	return string(b), nil
}

func DecodeFeedItem(payload string) (*model.FeedItem, error) {
	var encoded encodedFeedItem
	if err := json.UnmarshalFromString(payload, &encoded); err != nil {
		return nil, errors.Wrap(ErrCorruptPayload, err.Error())
	}
	if encoded.Version != codecVersion {
		return nil, errors.Wrapf(ErrCorruptPayload, "unsupported version %d", encoded.Version)
	}
	if encoded.ItemID == "" {
		return nil, errors.Wrap(ErrCorruptPayload, "missing id")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, encoded.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(ErrCorruptPayload, err.Error())
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, encoded.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(ErrCorruptPayload, err.Error())
	}

	item := &model.FeedItem{
		ItemID:             encoded.ItemID,
		Title:              encoded.Title,
		OwnerID:            encoded.OwnerID,
		OwnerName:          encoded.OwnerName,
		TotalChildCount:    encoded.TotalChildCount,
		TotalSubChildCount: encoded.TotalSubChildCount,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		CategoryID:         encoded.CategoryID,
		CategoryName:       encoded.CategoryName,
		CategoryColor:      encoded.CategoryColor,
		Tags:               encoded.Tags,
	}
	return item.Normalize(), nil
}
