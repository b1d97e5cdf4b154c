package handlers

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/courier"
	"service-dispatch/internal/service/dispatch"
)

type courierUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Courier, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	Create(ctx context.Context, c *domain.Courier) (int64, error)
	UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) error
	SetLocation(ctx context.Context, id int64, p domain.Point) error
	SetOnline(ctx context.Context, id int64, online bool) error
}

// NewCourierUsecase wires the courier Service into a courierUsecase.
func NewCourierUsecase(svc *courier.Service) courierUsecase {
	return svc
}

type dispatchUsecase interface {
	Start(ctx context.Context, bookingID string) error
	Cancel(ctx context.Context, bookingID string) error
	Retry(ctx context.Context, bookingID string) error
	Status(bookingID string) dispatch.Status
	OnCourierAccept(ctx context.Context, offerID string, courierID int64) error
	OnCourierDecline(ctx context.Context, offerID string, courierID int64) error
}

// NewDispatchUsecase wires the Orchestrator into a dispatchUsecase.
func NewDispatchUsecase(o *dispatch.Orchestrator) dispatchUsecase {
	return o
}
