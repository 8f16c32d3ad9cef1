package cmd

import (
	"github.com/nearwatch/receipt-watcher/engine/watcher"
	"github.com/nearwatch/receipt-watcher/module/component"
	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
)

// newNode bundles the components of a run. Each component is started by its own
// worker; onEngineDone is called once the engine has stopped.
func newNode(engine *watcher.Engine, onEngineDone func(), components ...component.Component) *component.ComponentManager {
	builder := component.NewComponentManagerBuilder()
	for _, c := range components {
		builder.AddWorker(startComponent(c, nil))
	}
	builder.AddWorker(startComponent(engine, onEngineDone))
	return builder.Build()
}

func startComponent(c component.Component, onDone func()) component.ComponentWorker {
	return func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
		c.Start(ctx)

		select {
		case <-c.Ready():
			ready()
		case <-ctx.Done():
		}

		<-c.Done()
		if onDone != nil {
			onDone()
		}
	}
}
