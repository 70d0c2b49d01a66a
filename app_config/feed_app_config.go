package app_config

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/Luismorlan/publicfeed/cache"
	"github.com/Luismorlan/publicfeed/feed"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// This is the feed cache config shared by api server and feed warmer.
type FeedAppConfig struct {
	// Sorted set holding the feed ranking.
	INDEX_KEY string `yaml:"INDEX_KEY"`
	// Prefix of per item keys, items live under <prefix>:item:<id>.
	ITEM_KEY_PREFIX string `yaml:"ITEM_KEY_PREFIX"`
	// TTL of a cached item, also the worst case staleness of the feed.
	ITEM_TTL_SECOND int64 `yaml:"ITEM_TTL_SECOND"`
	// TTL of the index, refreshed on every write.
	INDEX_TTL_SECOND int64 `yaml:"INDEX_TTL_SECOND"`
	// Bound for a single cache call. Slower calls count as cache unavailable.
	CACHE_TIMEOUT_MILLISECOND int64 `yaml:"CACHE_TIMEOUT_MILLISECOND"`
	// Bound for a single primary store query.
	PRIMARY_TIMEOUT_MILLISECOND int64 `yaml:"PRIMARY_TIMEOUT_MILLISECOND"`
	// Items warmed after a read finds the index empty. 0 disables it.
	COLD_WARM_UP_LIMIT int `yaml:"COLD_WARM_UP_LIMIT"`
	// Items warmed by every periodic warm up.
	WARM_UP_LIMIT int `yaml:"WARM_UP_LIMIT"`
	// Periodic warm up interval of the feed warmer.
	WARM_UP_EVERY_SECOND int64 `yaml:"WARM_UP_EVERY_SECOND"`
	// DogStatsD address the feed warmer reports to. Empty disables reporting.
	STATSD_ADDRESS string `yaml:"STATSD_ADDRESS"`
	// Address the api server listens on.
	SERVER_ADDRESS string `yaml:"SERVER_ADDRESS"`
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

func DefaultFeedAppConfig() FeedAppConfig {
	return FeedAppConfig{
		INDEX_KEY:                   cache.DefaultIndexKey,
		ITEM_KEY_PREFIX:             cache.DefaultKeyPrefix,
		ITEM_TTL_SECOND:             int64(feed.DefaultItemTTL / time.Second),
		INDEX_TTL_SECOND:            int64(feed.DefaultIndexTTL / time.Second),
		CACHE_TIMEOUT_MILLISECOND:   int64(feed.DefaultCacheTimeout / time.Millisecond),
		PRIMARY_TIMEOUT_MILLISECOND: int64(feed.DefaultPrimaryTimeout / time.Millisecond),
		COLD_WARM_UP_LIMIT:          feed.DefaultColdWarmUpLimit,
		WARM_UP_LIMIT:               200,
		WARM_UP_EVERY_SECOND:        240,
		SERVER_ADDRESS:              ":8080",
	}
}

// ParseFeedAppConfig reads the yaml file at path on top of the defaults and
// validates the result.
func ParseFeedAppConfig(path string) (FeedAppConfig, error) {
	c := DefaultFeedAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read feed app config")
	}
	if err = yaml.Unmarshal(yamlFile, &c); err != nil {
		return c, errors.Wrap(err, "unmarshal feed app config")
	}
	return c, c.Validate()
}

func (c FeedAppConfig) Validate() error {
	switch {
	case c.INDEX_KEY == "":
		return &ConfigError{Field: "INDEX_KEY", Message: "must not be empty"}
	case c.ITEM_KEY_PREFIX == "":
		return &ConfigError{Field: "ITEM_KEY_PREFIX", Message: "must not be empty"}
	case c.ITEM_TTL_SECOND <= 0:
		return &ConfigError{Field: "ITEM_TTL_SECOND", Message: "must be positive"}
	case c.INDEX_TTL_SECOND <= 0:
		return &ConfigError{Field: "INDEX_TTL_SECOND", Message: "must be positive"}
	case c.CACHE_TIMEOUT_MILLISECOND <= 0:
		return &ConfigError{Field: "CACHE_TIMEOUT_MILLISECOND", Message: "must be positive"}
	case c.PRIMARY_TIMEOUT_MILLISECOND <= 0:
		return &ConfigError{Field: "PRIMARY_TIMEOUT_MILLISECOND", Message: "must be positive"}
	case c.COLD_WARM_UP_LIMIT < 0:
		return &ConfigError{Field: "COLD_WARM_UP_LIMIT", Message: "must not be negative"}
	case c.WARM_UP_LIMIT <= 0:
		return &ConfigError{Field: "WARM_UP_LIMIT", Message: "must be positive"}
	case c.WARM_UP_EVERY_SECOND <= 0:
		return &ConfigError{Field: "WARM_UP_EVERY_SECOND", Message: "must be positive"}
	}
	return nil
}

// RepositoryConfig converts the config into the form feed.NewFeedRepository
// expects.
func (c FeedAppConfig) RepositoryConfig() feed.FeedRepositoryConfig {
	return feed.FeedRepositoryConfig{
		IndexKey:        c.INDEX_KEY,
		KeyPrefix:       c.ITEM_KEY_PREFIX,
		ItemTTL:         time.Duration(c.ITEM_TTL_SECOND) * time.Second,
		IndexTTL:        time.Duration(c.INDEX_TTL_SECOND) * time.Second,
		CacheTimeout:    time.Duration(c.CACHE_TIMEOUT_MILLISECOND) * time.Millisecond,
		PrimaryTimeout:  time.Duration(c.PRIMARY_TIMEOUT_MILLISECOND) * time.Millisecond,
		ColdWarmUpLimit: c.COLD_WARM_UP_LIMIT,
	}
}

func (c FeedAppConfig) WarmUpInterval() time.Duration {
	return time.Duration(c.WARM_UP_EVERY_SECOND) * time.Second
}
