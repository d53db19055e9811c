package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/pkg/httpcontext"
	"github.com/fastygo/focusflow/usecase/tracker"
)

// BackupHandler exchanges raw snapshot documents, not envelopes, so an
// exported file can be posted back unchanged.
type BackupHandler struct {
	baseHandler
	tracker *tracker.Tracker
	now     func() time.Time
}

func NewBackupHandler(tr *tracker.Tracker, adapter *httpcontext.Adapter, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tracker:     tr,
		now:         time.Now,
	}
}

// @Summary Export a backup
// @Tags backup
// @Router /api/v1/backup [get]
func (h *BackupHandler) Export(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	body, err := json.MarshalIndent(h.tracker.Export(), "", "  ")
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.BackupFileName(h.now())))
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(body)
}

// @Summary Import a backup, replacing all state
// @Tags backup
// @Router /api/v1/backup [post]
func (h *BackupHandler) Import(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.tracker.Import(stdCtx, ctx.PostBody()); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.tracker.Stats())
}
