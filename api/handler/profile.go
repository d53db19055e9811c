package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/api/transport"
	"github.com/fastygo/focusflow/pkg/httpcontext"
	"github.com/fastygo/focusflow/usecase/tracker"
)

type ProfileHandler struct {
	baseHandler
	tracker *tracker.Tracker
}

func NewProfileHandler(tr *tracker.Tracker, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tracker:     tr,
	}
}

// @Summary Get profile
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.tracker.Profile())
}

// @Summary Update profile name and icon
// @Tags profile
// @Accept json
// @Produce json
// @Router /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.ProfileRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	profile, err := h.tracker.UpdateProfile(stdCtx, req.Name, req.Icon)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, profile)
}
