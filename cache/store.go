package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrMiss is returned by Store.Get when the key does not exist or expired.
	ErrMiss = errors.New("cache miss")
	// ErrUnavailable wraps every failure to reach the cache backend, including
	// timeouts and cancelled contexts.
	ErrUnavailable = errors.New("cache unavailable")
)

// Status is the outcome of a cache operation. Callers branch on it instead of
// on errors, so that a broken cache is a data-flow decision.
type Status int

const (
	Miss Status = iota
	Hit
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by a Store into a Status.
func Classify(err error) Status {
	switch {
	case err == nil:
		return Hit
	case errors.Is(err, ErrMiss):
		return Miss
	default:
		return Unavailable
	}
}

// Store is the key/value and sorted-set surface the feed cache needs. Every
// error other than ErrMiss satisfies errors.Is(err, ErrUnavailable).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	ZAdd(ctx context.Context, key string, member string, score float64) error
	// ZRevRange returns members ranked from start to stop inclusive, highest
	// score first.
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRem(ctx context.Context, key string, member string) error
	ZCard(ctx context.Context, key string) (int64, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	// TTL returns the remaining time to live. Negative values follow redis:
	// -1 for a key without expiry and -2 for a missing key.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Ping(ctx context.Context) error
	Close() error
}
