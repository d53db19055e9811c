package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/api/transport"
	"github.com/fastygo/focusflow/pkg/httpcontext"
	"github.com/fastygo/focusflow/repository"
	"github.com/fastygo/focusflow/usecase/tracker"
)

// StoreStatus is the view of the record store the health check needs.
type StoreStatus interface {
	Path() string
	Size() (int, error)
	Stats() repository.StoreStats
}

type HealthHandler struct {
	baseHandler
	store   StoreStatus
	tracker *tracker.Tracker
}

func NewHealthHandler(store StoreStatus, tr *tracker.Tracker, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		tracker:     tr,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	payload := map[string]interface{}{
		"timestamp":      time.Now().UTC(),
		"running_timers": h.tracker.Stats().RunningTimers,
		"day":            h.tracker.LastProcessedDate(),
	}

	records, err := h.store.Size()
	payload["store"] = map[string]interface{}{
		"path":    h.store.Path(),
		"online":  err == nil,
		"records": records,
		"stats":   h.store.Stats(),
	}
	if err != nil {
		h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "store unavailable", payload))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, payload)
}
