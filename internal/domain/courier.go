package domain

type (
	// CourierStatus represents the approval status of a courier.
	CourierStatus string
	// CourierTransportType represents a transport type a courier is verified for.
	CourierTransportType string
)

// Courier represents a delivery courier.
type Courier struct {
	ID                  int64
	Name                string
	Phone               string
	Status              CourierStatus
	TransportTypes      []CourierTransportType
	Rating              float64
	CompletedDeliveries int64
	Online              bool
	// Location is the last reported position. Nil means unknown; a courier
	// without a known location is never offered a booking.
	Location *Point
}

// HasTransport reports whether the courier holds a verified transport of type t.
func (c Courier) HasTransport(t CourierTransportType) bool {
	for _, v := range c.TransportTypes {
		if v == t {
			return true
		}
	}
	return false
}

// PartialCourierUpdate carries optional fields to update a courier.
// A nil field means the attribute is left unchanged.
type PartialCourierUpdate struct {
	ID             int64
	Name           *string
	Phone          *string
	Status         *CourierStatus
	TransportTypes *[]CourierTransportType
	Online         *bool
}
