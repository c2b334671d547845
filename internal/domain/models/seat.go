package models

// SeatStatus mirrors the upstream seat state vocabulary.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusReserved  SeatStatus = "reserved"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusBlocked   SeatStatus = "blocked"
)

// Seat is one seat of a trip as reported by the upstream inventory.
type Seat struct {
	ID     int64      `json:"id"`
	SeatNo string     `json:"seatNo"`
	Status SeatStatus `json:"status"`
}

// IsAvailable reports whether the seat can still be selected. The upstream is
// the sole arbiter; this is only as fresh as the last fetch.
func (s Seat) IsAvailable() bool {
	return s.Status == SeatStatusAvailable
}
