package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-dispatch/internal/logx"
)

const (
	bodyLimit = 1 << 20
	dbTimeout = 3 * time.Second
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func withDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, dbTimeout)
}

func writeJSON(l logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		l.Error("json encode",
			logx.String("req_id", reqID(r.Context())),
			logx.Any("err", err),
		)
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func writeError(l logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	l.Debug("http error",
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	writeJSON(l, w, r, status, errResponse{Error: msg})
}

func decodeJSON[T any](l logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(l, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(l, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func bookingIDFromURL(r *http.Request) (string, error) {
	id := chi.URLParam(r, "bookingID")
	if id == "" {
		return "", errors.New("invalid booking id")
	}
	return id, nil
}

func offerIDFromURL(r *http.Request) string {
	return chi.URLParam(r, "offerID")
}
