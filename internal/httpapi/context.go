package httpapi

import (
	"context"
	"errors"
	"net/http"
)

var errShuttingDown = errors.New("server shutting down")

// serverBaseCtx is canceled on shutdown. Defaults to Background.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level context whose cancellation aborts
// in-flight generations.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives from req, so request-scoped values survive, and
// cancels when base is done.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(req)
	stop := context.AfterFunc(base, func() { cancel(errShuttingDown) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}

// generationContext scopes a generation to the request, the server lifetime
// and the configured timeout.
func generationContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	if requestTimeout <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, requestTimeout)
	return tctx, func() {
		tcancel()
		cancel()
	}
}

// clientGone reports whether the caller disconnected. A server shutdown alone
// does not count; the client still gets a 500.
func clientGone(r *http.Request) bool {
	return r.Context().Err() != nil
}
