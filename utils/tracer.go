package utils

import (
	"github.com/Luismorlan/publicfeed/utils/dotenv"
	. "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the datadog tracer for the given service. It is a no-op
// for the agent if none is listening, spans are simply dropped.
func StartTracer(serviceName string) {
	env := "development"
	if dotenv.IsProdEnv() {
		env = "production"
	}

	tracer.Start(
		tracer.WithService(serviceName),
		tracer.WithEnv(env),
	)

	Log.WithFields(
		logrus.Fields{"service": serviceName, "env": env},
	).Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
