package handlers

import (
	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/dispatch"
)

func (req createCourierRequest) toModel() *domain.Courier {
	return &domain.Courier{
		Name:           req.Name,
		Phone:          req.Phone,
		Status:         req.Status,
		TransportTypes: req.TransportTypes,
	}
}

func (req updateCourierRequest) toModel() domain.PartialCourierUpdate {
	return domain.PartialCourierUpdate{
		ID:             req.ID,
		Name:           req.Name,
		Phone:          req.Phone,
		Status:         req.Status,
		TransportTypes: req.TransportTypes,
		Online:         req.Online,
	}
}

func modelToResponse(c domain.Courier) courierDTO {
	dto := courierDTO{
		ID:                  c.ID,
		Name:                c.Name,
		Phone:               c.Phone,
		Status:              c.Status,
		TransportTypes:      c.TransportTypes,
		Rating:              c.Rating,
		CompletedDeliveries: c.CompletedDeliveries,
		Online:              c.Online,
	}
	if c.Location != nil {
		dto.Location = &pointDTO{Lat: c.Location.Lat, Lng: c.Location.Lng}
	}
	return dto
}

func modelsToResponse(list []domain.Courier) []courierDTO {
	out := make([]courierDTO, 0, len(list))
	for _, c := range list {
		out = append(out, modelToResponse(c))
	}
	return out
}

func statusToResponse(st dispatch.Status) dispatchStatusResponse {
	return dispatchStatusResponse{
		State:      string(st.State),
		FailReason: st.FailReason,
		TriedCount: st.TriedCount,
		ElapsedMs:  st.Elapsed.Milliseconds(),
	}
}
