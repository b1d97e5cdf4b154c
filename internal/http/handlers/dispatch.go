package handlers

import (
	"context"
	"errors"
	"net/http"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
)

// DispatchHandler serves HTTP endpoints for assignment jobs and offers.
type DispatchHandler struct {
	uc     dispatchUsecase
	logger logx.Logger
}

// NewDispatchHandler wires a dispatchUsecase into HTTP handlers.
func NewDispatchHandler(uc dispatchUsecase, logger logx.Logger) *DispatchHandler {
	return &DispatchHandler{uc: uc, logger: logger}
}

// Start handles POST /dispatch/{bookingID}/start.
func (h *DispatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDFromURL(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid booking id")
		return
	}
	err = h.uc.Start(r.Context(), bookingID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusAccepted, map[string]string{"status": "searching"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid booking")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "booking not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "dispatch already running")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Status handles GET /dispatch/{bookingID}.
func (h *DispatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDFromURL(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid booking id")
		return
	}
	st := h.uc.Status(bookingID)
	if !st.Exists {
		writeError(h.logger, w, r, http.StatusNotFound, "no dispatch job")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusToResponse(st))
}

// Cancel handles POST /dispatch/{bookingID}/cancel.
func (h *DispatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDFromURL(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.uc.Cancel(r.Context(), bookingID); err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Retry handles POST /dispatch/{bookingID}/retry.
func (h *DispatchHandler) Retry(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDFromURL(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid booking id")
		return
	}
	err = h.uc.Retry(r.Context(), bookingID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusAccepted, map[string]string{"status": "searching"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid booking")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "booking not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "dispatch is not retryable")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AcceptOffer handles POST /offers/{offerID}/accept.
func (h *DispatchHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	h.resolveOffer(w, r, h.uc.OnCourierAccept, "accepted")
}

// DeclineOffer handles POST /offers/{offerID}/decline.
func (h *DispatchHandler) DeclineOffer(w http.ResponseWriter, r *http.Request) {
	h.resolveOffer(w, r, h.uc.OnCourierDecline, "declined")
}

func (h *DispatchHandler) resolveOffer(
	w http.ResponseWriter,
	r *http.Request,
	resolve func(ctx context.Context, offerID string, courierID int64) error,
	result string,
) {
	offerID := offerIDFromURL(r)
	if offerID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid offer id")
		return
	}
	var req offerActionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.CourierID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier id")
		return
	}

	err := resolve(r.Context(), offerID, req.CourierID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": result})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusForbidden, "offer belongs to another courier")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "offer not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "offer is no longer actionable")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
