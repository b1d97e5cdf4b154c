package domain

import "regexp"

// List of possible courier approval statuses
const (
	StatusActive  CourierStatus = "active"
	StatusPending CourierStatus = "pending"
	StatusBlocked CourierStatus = "blocked"
)

// List of possible courier transport types
const (
	TransportTypeFoot    CourierTransportType = "on_foot"
	TransportTypeScooter CourierTransportType = "scooter"
	TransportTypeCar     CourierTransportType = "car"
	TransportTypeVan     CourierTransportType = "van"
)

// List of allowed statuses
var allowedStatuses = [...]CourierStatus{
	StatusActive, StatusPending, StatusBlocked,
}

var allowedTransportTypes = [...]CourierTransportType{
	TransportTypeFoot, TransportTypeScooter, TransportTypeCar, TransportTypeVan,
}

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the CourierTransportType is valid
func (t CourierTransportType) Valid() bool {
	for _, v := range allowedTransportTypes {
		if t == v {
			return true
		}
	}
	return false
}

// rePhone is a regex to validate phone numbers
var rePhone = regexp.MustCompile(`^\+[0-9]{11}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
