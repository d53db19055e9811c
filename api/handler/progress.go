package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/api/transport"
	"github.com/fastygo/focusflow/pkg/httpcontext"
	"github.com/fastygo/focusflow/usecase/tracker"
)

// ProgressHandler serves statistics, achievements and the clock-driven hooks.
type ProgressHandler struct {
	baseHandler
	tracker *tracker.Tracker
}

func NewProgressHandler(tr *tracker.Tracker, adapter *httpcontext.Adapter, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tracker:     tr,
	}
}

// @Summary Dashboard statistics
// @Tags progress
// @Router /api/v1/stats [get]
func (h *ProgressHandler) Stats(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.tracker.Stats())
}

// @Summary Achievement catalog with unlock times
// @Tags progress
// @Router /api/v1/achievements [get]
func (h *ProgressHandler) Achievements(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.tracker.Achievements())
}

// @Summary Pop the next pending unlock notification
// @Tags progress
// @Router /api/v1/achievements/next [post]
func (h *ProgressHandler) NextUnlock(ctx *fasthttp.RequestCtx) {
	ev, ok := h.tracker.NextUnlock()
	if !ok {
		ctx.SetStatusCode(http.StatusNoContent)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, ev)
}

// @Summary Reconcile timers and check the date now
// @Tags progress
// @Router /api/v1/heartbeat [post]
func (h *ProgressHandler) Heartbeat(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := h.tracker.Resume(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOutcome(ctx, http.StatusOK, h.tracker.Stats(), out)
}

// @Summary Force-unlock the next locked achievement
// @Tags debug
// @Router /api/v1/debug/unlock-next [post]
func (h *ProgressHandler) UnlockNext(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ev, err := h.tracker.UnlockNext(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if ev == nil {
		ctx.SetStatusCode(http.StatusNoContent)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, ev)
}

// @Summary Force a day rollover
// @Tags debug
// @Router /api/v1/debug/new-day [post]
func (h *ProgressHandler) NewDay(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.NewDayRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	out, err := h.tracker.ProcessNewDay(stdCtx, req.DaysPassed)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOutcome(ctx, http.StatusOK, h.tracker.Stats(), out)
}
