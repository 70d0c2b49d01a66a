package app_config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/Luismorlan/publicfeed/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultFeedAppConfig(t *testing.T) {
	c := DefaultFeedAppConfig()
	assert.NoError(t, c.Validate())
	assert.Equal(t, feed.DefaultFeedRepositoryConfig(), c.RepositoryConfig())
	assert.Equal(t, 4*time.Minute, c.WarmUpInterval())
}

func TestParseFeedAppConfig(t *testing.T) {
	path := writeConfig(t, `
ITEM_TTL_SECOND: 60
CACHE_TIMEOUT_MILLISECOND: 50
COLD_WARM_UP_LIMIT: 0
STATSD_ADDRESS: "127.0.0.1:8125"
`)
	c, err := ParseFeedAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.ITEM_TTL_SECOND)
	assert.Equal(t, "127.0.0.1:8125", c.STATSD_ADDRESS)
	// Unset keys keep their defaults.
	assert.Equal(t, "feed:public_curriculums", c.INDEX_KEY)
	assert.Equal(t, 200, c.WARM_UP_LIMIT)

	rc := c.RepositoryConfig()
	assert.Equal(t, time.Minute, rc.ItemTTL)
	assert.Equal(t, 50*time.Millisecond, rc.CacheTimeout)
	assert.Equal(t, 0, rc.ColdWarmUpLimit)
}

func TestParseFeedAppConfigErrors(t *testing.T) {
	_, err := ParseFeedAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseFeedAppConfig(writeConfig(t, "ITEM_TTL_SECOND: [1"))
	assert.Error(t, err)

	_, err = ParseFeedAppConfig(writeConfig(t, "WARM_UP_LIMIT: 0"))
	require.Error(t, err)
	configErr, ok := err.(*ConfigError)
	require.True(t, ok, "expected ConfigError but got: %T", err)
	assert.Equal(t, "WARM_UP_LIMIT", configErr.Field)
	assert.Equal(t, "invalid config WARM_UP_LIMIT: must be positive", configErr.Error())
}

func TestFeedAppConfigValidate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(c *FeedAppConfig)
	}{
		{"INDEX_KEY", func(c *FeedAppConfig) { c.INDEX_KEY = "" }},
		{"ITEM_KEY_PREFIX", func(c *FeedAppConfig) { c.ITEM_KEY_PREFIX = "" }},
		{"ITEM_TTL_SECOND", func(c *FeedAppConfig) { c.ITEM_TTL_SECOND = 0 }},
		{"INDEX_TTL_SECOND", func(c *FeedAppConfig) { c.INDEX_TTL_SECOND = -1 }},
		{"CACHE_TIMEOUT_MILLISECOND", func(c *FeedAppConfig) { c.CACHE_TIMEOUT_MILLISECOND = 0 }},
		{"PRIMARY_TIMEOUT_MILLISECOND", func(c *FeedAppConfig) { c.PRIMARY_TIMEOUT_MILLISECOND = 0 }},
		{"COLD_WARM_UP_LIMIT", func(c *FeedAppConfig) { c.COLD_WARM_UP_LIMIT = -1 }},
		{"WARM_UP_EVERY_SECOND", func(c *FeedAppConfig) { c.WARM_UP_EVERY_SECOND = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			c := DefaultFeedAppConfig()
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, tc.field, err.(*ConfigError).Field)
		})
	}
}
