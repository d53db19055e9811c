package middleware

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Middleware wraps a fasthttp handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// RequestObserver records served requests, e.g. into Prometheus.
type RequestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
}

// Chain applies mws so that the first one is outermost.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover turns a handler panic into a 500 instead of killing the process.
func Recover(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic",
						zap.Any("panic", rec),
						zap.ByteString("path", ctx.Path()),
						zap.Stack("stack"))
					ctx.ResetBody()
					ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				}
			}()
			next(ctx)
		}
	}
}

// AccessLog logs every request and reports it to obs when set. The route
// pattern, not the raw path, labels metrics to keep cardinality bounded.
func AccessLog(logger *zap.Logger, obs RequestObserver) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)
			elapsed := time.Since(start)

			method := string(ctx.Method())
			status := ctx.Response.StatusCode()
			route := routeOf(ctx)
			logger.Debug("request served",
				zap.String("method", method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("elapsed", elapsed),
				zap.ByteString("request_id", ctx.Response.Header.Peek("X-Request-ID")))
			if obs != nil {
				obs.ObserveRequest(method, route, status, elapsed)
			}
		}
	}
}

func routeOf(ctx *fasthttp.RequestCtx) string {
	if route, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && route != "" {
		return route
	}
	return "unmatched"
}
