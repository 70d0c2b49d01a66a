package main

import (
	"context"

	"github.com/Luismorlan/publicfeed/app_config"
	"github.com/Luismorlan/publicfeed/cache"
	"github.com/Luismorlan/publicfeed/feed"
	"github.com/Luismorlan/publicfeed/server"
	. "github.com/Luismorlan/publicfeed/utils"
	"github.com/Luismorlan/publicfeed/utils/dotenv"
	. "github.com/Luismorlan/publicfeed/utils/flag"
	. "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/sirupsen/logrus"
)

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

	StartTracer(ServiceName)
	defer CloseTracer()

	db, err := GetDBConnection()
	if err != nil {
		Log.WithError(err).Fatal("fail to connect to primary store")
	}
	defer CloseDB(db)

	// The api server keeps serving from the primary store when redis is down,
	// so a failed ping at startup is not fatal.
	store, err := cache.GetRedisStore(context.Background())
	if store == nil {
		Log.WithError(err).Fatal("fail to create redis store")
	}
	if err != nil {
		Log.WithError(err).Warn("redis unavailable at startup, feed reads fall back to primary store")
	}
	defer store.Close()

	repo := feed.NewFeedRepository(store, feed.NewGormPrimaryStore(db), config.RepositoryConfig())
	router := server.NewRouter(feed.NewFeedService(repo), ServiceName)

	Log.Infof("api server starts up on %s", config.SERVER_ADDRESS)
	if err := router.Run(config.SERVER_ADDRESS); err != nil {
		Log.WithError(err).Error("api server stopped")
	}
}
