package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

	ctx  context.Context
	once sync.Once
)

// Context returns a Context cancelled on the first SIGINT or SIGTERM.
// Solves in flight stop at their next attempt boundary; a second signal
// exits immediately.
func Context() context.Context {
	once.Do(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(context.Background())
		ch := make(chan os.Signal, 2)
		signal.Notify(ch, shutdownSignals...)
		go func() {
			<-ch
			cancel()
			<-ch
			os.Exit(1)
		}()
	})
	return ctx
}
