package modules

import (
	"context"
	"time"

	Logger "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/Luismorlan/publicfeed/warmer"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// MetricClient is the subset of *statsd.Client the reporter uses.
type MetricClient interface {
	Incr(name string, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
	Close() error
}

type ReporterConfig struct {
	Name string
}

// Reporter's job is to listen to executed warm up jobs and send their results
// to Datadog for monitoring purpose.
type Reporter struct {
	Config ReporterConfig

	Statsd MetricClient

	EventBus *gochannel.GoChannel
}

func NewReporter(config ReporterConfig, statsd MetricClient, e *gochannel.GoChannel) *Reporter {
	return &Reporter{
		Config:   config,
		Statsd:   statsd,
		EventBus: e,
	}
}

// Report warm up result to datadog.
func ReportWarmUpResult(result *warmer.WarmUpResult, statsd MetricClient) {
	status := "status:ok"
	if !result.Succeeded() {
		status = "status:error"
	}
	if err := statsd.Incr(warmer.DdogWarmUpRunCounter, []string{status}, 1); err != nil {
		Logger.Log.Infoln("cannot report warm up run")
	}
	if err := statsd.Count(warmer.DdogWarmUpItemCounter, int64(result.Warmed), []string{"result:warmed"}, 1); err != nil {
		Logger.Log.Infoln("cannot report warmed items")
	}
	if err := statsd.Count(warmer.DdogWarmUpItemCounter, int64(result.Failed), []string{"result:failed"}, 1); err != nil {
		Logger.Log.Infoln("cannot report failed items")
	}
	if err := statsd.Gauge(warmer.DdogCacheSizeGauge, float64(result.CacheSize), nil, 1); err != nil {
		Logger.Log.Infoln("cannot report cache size")
	}
	if err := statsd.Gauge(warmer.DdogWarmUpLatencyGauge, float64(result.Latency/time.Millisecond), nil, 1); err != nil {
		Logger.Log.Infoln("cannot report warm up latency")
	}
}

func (r *Reporter) ProcessWarmUpResults(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := r.EventBus.Subscribe(ctx, warmer.TopicExecutedWarmUp)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		result, err := warmer.DecodeResult(msg.Payload)
		if err != nil {
			Logger.Log.WithError(err).Error("drop undecodable warm up result")
			continue
		}

		ReportWarmUpResult(result, r.Statsd)
	}

	return nil
}

func (r *Reporter) RunModule(ctx context.Context) error {
	return r.ProcessWarmUpResults(ctx)
}

func (r *Reporter) Name() string {
	return r.Config.Name
}

func (r *Reporter) Shutdown() {
	if err := r.Statsd.Close(); err != nil {
		Logger.Log.WithError(err).Error("fail to close statsd client")
	}
}
