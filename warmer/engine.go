package warmer

import (
	"context"
	"sync"

	Logger "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Engine runs the feed warmer modules against one event bus and owns their
// shutdown.
type Engine struct {
	// Modules live as long as the engine, each on its own goroutine.
	Modules []Module

	// Parent of every module context.
	ctx context.Context

	// Cancels ctx on Shutdown.
	cancel context.CancelFunc

	// Carries warm up jobs and results between modules, closed on Shutdown.
	EventBus *gochannel.GoChannel
}

// NewEngine binds modules to ctx. cancel must cancel ctx.
func NewEngine(ms []Module, ctx context.Context, cancel context.CancelFunc, e *gochannel.GoChannel) *Engine {
	return &Engine{
		Modules:  ms,
		ctx:      ctx,
		cancel:   cancel,
		EventBus: e,
	}
}

// Run blocks until every module returned, which happens once ctx is done.
func (e *Engine) Run() {
	var wg sync.WaitGroup

	for idx := range e.Modules {
		wg.Add(1)
		go func(module Module) {
			defer wg.Done()
			Logger.Log.Infof("start engine module %s", module.Name())
			RunModuleWithGracefulRestart(e.ctx, module)
			Logger.Log.Infof("Module %s finished execution.", module.Name())
		}(e.Modules[idx])
	}

	wg.Wait()
}

// Shutdown cancels all modules, lets each release its resources and then
// closes the event bus.
func (e *Engine) Shutdown() {
	Logger.Log.Infoln("feed warmer shutting down")
	e.cancel()

	var wg sync.WaitGroup
	for idx := range e.Modules {
		wg.Add(1)
		go func(module Module) {
			defer wg.Done()
			module.Shutdown()
			Logger.Log.Infof("Module %s shut down.", module.Name())
		}(e.Modules[idx])
	}

	wg.Wait()

	if err := e.EventBus.Close(); err != nil {
		Logger.Log.WithError(err).Error("fail to close event bus")
	}
}
