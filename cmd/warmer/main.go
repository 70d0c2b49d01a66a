package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/publicfeed/app_config"
	"github.com/Luismorlan/publicfeed/cache"
	"github.com/Luismorlan/publicfeed/feed"
	"github.com/Luismorlan/publicfeed/utils"
	"github.com/Luismorlan/publicfeed/utils/dotenv"
	. "github.com/Luismorlan/publicfeed/utils/flag"
	. "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/Luismorlan/publicfeed/warmer"
	"github.com/Luismorlan/publicfeed/warmer/modules"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/sirupsen/logrus"
)

const schedulerStartDelay = time.Second

func main() {
	ParseFlags()
	if IsDevelopment {
		SetLevel(logrus.DebugLevel)
	}
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	config, err := app_config.ParseFeedAppConfig(AppConfigPath)
	if err != nil {
		Log.WithError(err).Fatal("fail to load app config")
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.WithError(err).Fatal("fail to connect to primary store")
	}
	defer utils.CloseDB(db)

	store, err := cache.GetRedisStore(context.Background())
	if store == nil {
		Log.WithError(err).Fatal("fail to create redis store")
	}
	if err != nil {
		Log.WithError(err).Warn("redis unavailable at startup, warm up jobs will fail until it recovers")
	}
	defer store.Close()

	repo := feed.NewFeedRepository(store, feed.NewGormPrimaryStore(db), config.RepositoryConfig())
	service := feed.NewFeedService(repo)

	eventbus := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)
	ctx, cancel := context.WithCancel(context.Background())

	// Initialize all engine modules here.
	ms := []warmer.Module{
		// Scheduler emits a warm up job every WARM_UP_EVERY_SECOND.
		modules.NewScheduler(
			modules.SchedulerConfig{
				Name:       "scheduler",
				Interval:   config.WarmUpInterval(),
				Limit:      config.WARM_UP_LIMIT,
				StartDelay: schedulerStartDelay,
			},
			modules.NewPublishJobDoer(eventbus),
		),
		// Runner warms the cache and publishes each result.
		modules.NewWarmUpRunner(modules.WarmUpRunnerConfig{Name: "warm_up_runner"}, service, eventbus),
	}
	if config.STATSD_ADDRESS != "" {
		client, err := statsd.New(config.STATSD_ADDRESS)
		if err != nil {
			Log.WithError(err).Fatal("fail to create statsd client")
		}
		// Reporter sends warm up results to datadog.
		ms = append(ms, modules.NewReporter(modules.ReporterConfig{Name: "reporter"}, client, eventbus))
	}

	engine := warmer.NewEngine(ms, ctx, cancel, eventbus)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	shutdown := make(chan struct{})
	go func() {
		<-sigs
		engine.Shutdown()
		close(shutdown)
	}()

	Log.Infof("feed warmer starts up, warming %d items every %s", config.WARM_UP_LIMIT, config.WarmUpInterval())
	// blocking call.
	engine.Run()
	<-shutdown

	Log.Info("engine stopped execution.")
}
