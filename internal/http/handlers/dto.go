package handlers

import "service-dispatch/internal/domain"

type pointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type courierDTO struct {
	ID                  int64                         `json:"id"`
	Name                string                        `json:"name"`
	Phone               string                        `json:"phone"`
	Status              domain.CourierStatus          `json:"status"`
	TransportTypes      []domain.CourierTransportType `json:"transport_types"`
	Rating              float64                       `json:"rating"`
	CompletedDeliveries int64                         `json:"completed_deliveries"`
	Online              bool                          `json:"online"`
	Location            *pointDTO                     `json:"location,omitempty"`
}

type createCourierRequest struct {
	Name           string                        `json:"name"`
	Phone          string                        `json:"phone"`
	Status         domain.CourierStatus          `json:"status"`
	TransportTypes []domain.CourierTransportType `json:"transport_types"`
}

type updateCourierRequest struct {
	ID             int64                          `json:"id"`
	Name           *string                        `json:"name,omitempty"`
	Phone          *string                        `json:"phone,omitempty"`
	Status         *domain.CourierStatus          `json:"status,omitempty"`
	TransportTypes *[]domain.CourierTransportType `json:"transport_types,omitempty"`
	Online         *bool                          `json:"online,omitempty"`
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type onlineRequest struct {
	Online bool `json:"online"`
}

type offerActionRequest struct {
	CourierID int64 `json:"courier_id"`
}

type dispatchStatusResponse struct {
	State      string `json:"state"`
	FailReason string `json:"fail_reason,omitempty"`
	TriedCount int    `json:"tried_count"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}
