package modules

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Luismorlan/publicfeed/warmer"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
)

type recordingStatsd struct {
	m       sync.Mutex
	metrics []string
	closed  bool
}

func (s *recordingStatsd) record(kind string, name string, value interface{}, tags []string) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.metrics = append(s.metrics, fmt.Sprintf("%s %s %v %v", kind, name, value, tags))
	return nil
}

func (s *recordingStatsd) Incr(name string, tags []string, rate float64) error {
	return s.record("incr", name, 1, tags)
}

func (s *recordingStatsd) Count(name string, value int64, tags []string, rate float64) error {
	return s.record("count", name, value, tags)
}

func (s *recordingStatsd) Gauge(name string, value float64, tags []string, rate float64) error {
	return s.record("gauge", name, value, tags)
}

func (s *recordingStatsd) Close() error {
	s.closed = true
	return nil
}

func (s *recordingStatsd) snapshot() []string {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]string{}, s.metrics...)
}

func TestReportWarmUpResult(t *testing.T) {
	s := &recordingStatsd{}
	ReportWarmUpResult(&warmer.WarmUpResult{Warmed: 7, Failed: 2, CacheSize: 40, Latency: 1500 * time.Millisecond}, s)
	assert.Equal(t, []string{
		"incr feed_warmer.warm_up.runs 1 [status:ok]",
		"count feed_warmer.warm_up.items 7 [result:warmed]",
		"count feed_warmer.warm_up.items 2 [result:failed]",
		"gauge feed_warmer.cache.size 40 []",
		"gauge feed_warmer.warm_up.latency_ms 1500 []",
	}, s.snapshot())

	s = &recordingStatsd{}
	ReportWarmUpResult(&warmer.WarmUpResult{Error: "primary store down"}, s)
	assert.Equal(t, "incr feed_warmer.warm_up.runs 1 [status:error]", s.snapshot()[0])
}

func TestReporterConsumesExecutedJobs(t *testing.T) {
	eventbus := newTestEventBus(t)
	s := &recordingStatsd{}
	r := NewReporter(ReporterConfig{Name: "reporter"}, s, eventbus)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- r.RunModule(ctx) }()

	payload, err := warmer.EncodeResult(&warmer.WarmUpResult{JobId: "job", Warmed: 1})
	assert.Nil(t, err)
	// Publish until the reporter has subscribed.
	assert.Eventually(t, func() bool {
		eventbus.Publish(warmer.TopicExecutedWarmUp, message.NewMessage(watermill.NewUUID(), payload))
		return len(s.snapshot()) > 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.Nil(t, <-done)

	r.Shutdown()
	assert.True(t, s.closed)
	assert.Equal(t, "reporter", r.Name())
}
