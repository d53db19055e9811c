package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/api/transport"
	"github.com/fastygo/focusflow/pkg/httpcontext"
	"github.com/fastygo/focusflow/usecase/tracker"
)

type TaskHandler struct {
	baseHandler
	tracker *tracker.Tracker
}

func NewTaskHandler(tr *tracker.Tracker, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tracker:     tr,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.tracker.Tasks())
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	created, err := h.tracker.AddTask(stdCtx, req.Title, req.Hours, req.Minutes, req.Seconds)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Toggle the check state of a task
// @Tags tasks
// @Router /api/v1/tasks/{id}/check [post]
func (h *TaskHandler) ToggleCheck(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, out, err := h.tracker.ToggleCheck(stdCtx, pathID(ctx))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOutcome(ctx, http.StatusOK, task, out)
}

// @Summary Start or pause a task timer
// @Tags tasks
// @Router /api/v1/tasks/{id}/timer [post]
func (h *TaskHandler) ToggleTimer(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, out, err := h.tracker.ToggleTimer(stdCtx, pathID(ctx))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOutcome(ctx, http.StatusOK, task, out)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.tracker.DeleteTask(stdCtx, pathID(ctx)); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}
