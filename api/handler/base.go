package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/api/transport"
	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/pkg/httpcontext"
	appLogger "github.com/fastygo/focusflow/pkg/logger"
	"github.com/fastygo/focusflow/usecase/tracker"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

// respondOutcome attaches the events a mutation triggered as envelope meta.
func (h baseHandler) respondOutcome(ctx *fasthttp.RequestCtx, status int, data interface{}, out tracker.Outcome) {
	events := transport.Events{Completed: out.Completed, RolledOver: out.RolledOver, Unlocked: out.Unlocked}
	if events.Empty() {
		h.respondSuccess(ctx, status, data)
		return
	}
	h.respondJSON(ctx, status, transport.NewSuccess(data, events))
}

func (h baseHandler) respondError(ctx context.Context, rctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		appLogger.WithRequestID(ctx, h.logger).Error("request failed", zap.Error(err))
	}
	h.respondJSON(rctx, status, transport.NewError(code, err.Error(), nil))
}

func mapError(err error) (int, string) {
	code := domain.CodeOf(err)
	switch code {
	case domain.ErrCodeInvalid:
		return http.StatusBadRequest, string(code)
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, string(code)
	case domain.ErrCodeConflict:
		return http.StatusConflict, string(code)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

func pathID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
