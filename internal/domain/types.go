package domain

// BusType distinguishes the two fleet vehicle classes.
type BusType string

const (
	BusTypeSprinter BusType = "sprinter"
	BusTypeCoaster  BusType = "coaster"
)

// SeatCapacity returns the fixed seat count for a vehicle class.
func (b BusType) SeatCapacity() int {
	switch b {
	case BusTypeCoaster:
		return 44
	default:
		return 14
	}
}

// TripType distinguishes single and return journeys.
type TripType string

const (
	TripTypeOneWay    TripType = "one_way"
	TripTypeRoundTrip TripType = "round_trip"
)
