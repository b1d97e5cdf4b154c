package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-dispatch/internal/http/handlers"
)

// Deps carries the handlers and optional middleware the router mounts.
type Deps struct {
	Base     *handlers.Handlers
	Courier  *handlers.CourierHandler
	Dispatch *handlers.DispatchHandler

	// Observability wraps every route; RateLimit wraps mutating routes only.
	// Either may be nil.
	Observability func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	if d.Observability != nil {
		r.Use(d.Observability)
	}

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	limited := func(r chi.Router) chi.Router {
		if d.RateLimit != nil {
			return r.With(d.RateLimit)
		}
		return r
	}

	r.Get("/couriers", d.Courier.List)
	r.Get("/courier/{id}", d.Courier.GetByID)
	limited(r).Post("/courier", d.Courier.Create)
	limited(r).Put("/courier", d.Courier.Update)
	limited(r).Post("/courier/{id}/location", d.Courier.SetLocation)
	limited(r).Put("/courier/{id}/online", d.Courier.SetOnline)

	r.Get("/dispatch/{bookingID}", d.Dispatch.Status)
	limited(r).Post("/dispatch/{bookingID}/start", d.Dispatch.Start)
	limited(r).Post("/dispatch/{bookingID}/cancel", d.Dispatch.Cancel)
	limited(r).Post("/dispatch/{bookingID}/retry", d.Dispatch.Retry)

	limited(r).Post("/offers/{offerID}/accept", d.Dispatch.AcceptOffer)
	limited(r).Post("/offers/{offerID}/decline", d.Dispatch.DeclineOffer)

	return r
}
