package modules

import (
	"context"
	"time"

	"github.com/Luismorlan/publicfeed/feed"
	Logger "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/Luismorlan/publicfeed/warmer"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// FeedWarmer is the part of feed.FeedService the runner drives.
type FeedWarmer interface {
	WarmUp(ctx context.Context, limit int) feed.WarmUpReport
	CacheStats(ctx context.Context) feed.CacheStats
}

type WarmUpRunnerConfig struct {
	// Name of the runner.
	Name string
}

// WarmUpRunner executes warm up jobs one at a time, so that slow runs never
// overlap, and publishes each result for the reporter.
type WarmUpRunner struct {
	Config WarmUpRunnerConfig

	warmer FeedWarmer

	EventBus *gochannel.GoChannel
}

// Return a new instance of WarmUpRunner.
func NewWarmUpRunner(config WarmUpRunnerConfig, w FeedWarmer, e *gochannel.GoChannel) *WarmUpRunner {
	return &WarmUpRunner{
		Config:   config,
		warmer:   w,
		EventBus: e,
	}
}

// After a job is executed, publish it into an executed job channel for
// reporter to report to Datadog.
func (r *WarmUpRunner) PublishFinishedJob(result *warmer.WarmUpResult) error {
	data, err := warmer.EncodeResult(result)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return r.EventBus.Publish(warmer.TopicExecutedWarmUp, msg)
}

func (r *WarmUpRunner) Execute(ctx context.Context, job *warmer.WarmUpJob) *warmer.WarmUpResult {
	start := time.Now()
	report := r.warmer.WarmUp(ctx, job.Limit)
	result := &warmer.WarmUpResult{
		JobId:  job.JobId,
		Warmed: report.Warmed,
		Failed: report.Failed,
	}
	if report.Err != nil {
		result.Error = report.Err.Error()
	}
	result.Latency = time.Since(start)
	result.CacheSize = r.warmer.CacheStats(ctx).Size
	result.FinishedAt = time.Now().UTC()
	return result
}

func (r *WarmUpRunner) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := r.EventBus.Subscribe(ctx, warmer.TopicPendingWarmUp)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		job, err := warmer.DecodeJob(msg.Payload)
		if err != nil {
			Logger.Log.WithError(err).Error("drop undecodable warm up job")
			continue
		}

		result := r.Execute(ctx, job)
		Logger.Log.Infof("warm up job %s done, warmed: %d, failed: %d", job.JobId, result.Warmed, result.Failed)
		if err = r.PublishFinishedJob(result); err != nil {
			Logger.Log.Errorf("fail to publish job into executed job channel, error: %s", err)
		}
	}

	return nil
}

func (r *WarmUpRunner) Name() string {
	return r.Config.Name
}

func (r *WarmUpRunner) Shutdown() {
	Logger.Log.Infoln("Module ", r.Config.Name, " gracefully shutdown")
}
