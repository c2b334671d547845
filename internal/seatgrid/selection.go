package seatgrid

import (
	"fmt"

	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
)

// Toggle flips one seat in the selection under the passenger-count ceiling:
//   - unavailable seats are rejected outright
//   - an already-selected seat is removed (always allowed)
//   - a new seat is appended unless the ceiling is reached
//
// The returned slice is a fresh copy; the input is never mutated.
func Toggle(selection []models.SelectedSeat, limit int, seat models.Seat) ([]models.SelectedSeat, error) {
	if limit <= 0 {
		limit = 1
	}
	if idx := indexOfSeat(selection, seat.ID); idx >= 0 {
		out := make([]models.SelectedSeat, 0, len(selection)-1)
		out = append(out, selection[:idx]...)
		out = append(out, selection[idx+1:]...)
		return out, nil
	}
	if !seat.IsAvailable() {
		return copySelection(selection), domain.ValidationError{Field: "seat", Msg: fmt.Sprintf("seat %s is not available", seat.SeatNo)}
	}
	if len(selection) >= limit {
		return copySelection(selection), domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("you can only select %d seat(s)", limit)}
	}
	out := copySelection(selection)
	return append(out, models.SelectedSeat{SeatID: seat.ID, SeatNo: seat.SeatNo}), nil
}

// Complete reports whether the selection can be confirmed: exactly as many
// seats as passengers, no more, no fewer.
func Complete(selection []models.SelectedSeat, passengers int) bool {
	return passengers > 0 && len(selection) == passengers
}

func indexOfSeat(selection []models.SelectedSeat, seatID int64) int {
	for i, s := range selection {
		if s.SeatID == seatID {
			return i
		}
	}
	return -1
}

func copySelection(selection []models.SelectedSeat) []models.SelectedSeat {
	out := make([]models.SelectedSeat, len(selection))
	copy(out, selection)
	return out
}
