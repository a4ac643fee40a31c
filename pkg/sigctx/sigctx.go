// Package sigctx binds the process lifetime to termination signals.
package sigctx

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext returns the root context the catalog service runs under:
// cancelled on SIGINT/SIGTERM/SIGQUIT, which stops the HTTP server, the
// sync consumer and any in-flight source fetch together.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
