package modules

import (
	Logger "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/Luismorlan/publicfeed/warmer"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

// JobDoer execute the WarmUpJob with customized logic. We create this
// abstraction so that we could inject different JobDoer implementation into
// scheduler for the easy of testing and debugging.
type JobDoer interface {
	// Performs a WarmUpJob, return error if there's any.
	Do(job *warmer.WarmUpJob) error
}

type PublishJobDoer struct {
	EventBus *gochannel.GoChannel
}

func NewPublishJobDoer(e *gochannel.GoChannel) *PublishJobDoer {
	return &PublishJobDoer{
		EventBus: e,
	}
}

// Publish the job to event bus, where the runner picks it up.
func (d *PublishJobDoer) Do(job *warmer.WarmUpJob) error {
	data, err := warmer.EncodeJob(job)
	if err != nil {
		return errors.Wrap(err, "encode warm up job")
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return d.EventBus.Publish(warmer.TopicPendingWarmUp, msg)
}

// Debug only, print the to-be executed job
type PrinterJobDoer struct{}

func (d *PrinterJobDoer) Do(job *warmer.WarmUpJob) error {
	Logger.Log.Infof("warm up job %s, limit %d, scheduled at %s", job.JobId, job.Limit, job.ScheduledAt)
	return nil
}
