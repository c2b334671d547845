package models

// TripOffer is one bookable departure returned by trip search: a vehicle on a
// route at a date/time with a per-seat fare.
type TripOffer struct {
	TripID        int64  `json:"tripId"`
	RouteFrom     string `json:"routeFrom"`
	RouteTo       string `json:"routeTo"`
	TripDate      string `json:"tripDate"` // YYYY-MM-DD
	DepartureTime string `json:"departureTime"`
	BusType       string `json:"busType"` // sprinter / coaster
	BusLabel      string `json:"busLabel"`
	Capacity      int    `json:"capacity"`
	SeatsLeft     int    `json:"seatsLeft"`
	FareKobo      int64  `json:"fareKobo"`
}

// BookingDetail is the full record fetched by booking token for the
// confirmation screen and e-ticket rendering.
type BookingDetail struct {
	BookingID      int64          `json:"bookingId"`
	BookingToken   string         `json:"bookingToken"`
	Reference      string         `json:"reference,omitempty"`
	Trip           TripOffer      `json:"trip"`
	Seats          []SelectedSeat `json:"seats"`
	PassengerName  string         `json:"passengerName"`
	PassengerPhone string         `json:"passengerPhone"`
	Email          string         `json:"email"`
	AmountKobo     int64          `json:"amountKobo"`
	PaymentStatus  string         `json:"paymentStatus"`
	TicketURL      string         `json:"ticketUrl,omitempty"`
}
