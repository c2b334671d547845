package seatgrid

import (
	"fmt"
	"testing"

	"transitbook/internal/domain/models"
)

func seatList(n int) []models.Seat {
	seats := make([]models.Seat, 0, n)
	for i := 1; i <= n; i++ {
		seats = append(seats, models.Seat{
			ID:     int64(i),
			SeatNo: fmt.Sprintf("%d", i),
			Status: models.SeatStatusAvailable,
		})
	}
	return seats
}

func countSeatCells(rows []GridRow) (seats, placeholders int) {
	for _, row := range rows {
		for _, cell := range row.Cells {
			if cell.Kind == CellSeat {
				seats++
			} else {
				placeholders++
			}
		}
	}
	return
}

func TestLayoutFor_Capacities(t *testing.T) {
	if got := LayoutFor("sprinter").Capacity; got != 14 {
		t.Fatalf("sprinter capacity %d", got)
	}
	if got := LayoutFor("coaster").Capacity; got != 44 {
		t.Fatalf("coaster capacity %d", got)
	}
	if got := LayoutFor("unknown-model").Capacity; got != 14 {
		t.Fatalf("unknown type must fall back to sprinter, got %d", got)
	}
}

func TestMapSeats_SprinterFullBus(t *testing.T) {
	rows := MapSeats(seatList(14), "sprinter", nil)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	seats, _ := countSeatCells(rows)
	if seats != 14 {
		t.Fatalf("expected 14 seat cells, got %d", seats)
	}
	if rows[0].Cells[0].Kind != CellDriver {
		t.Fatalf("first cell must be the driver")
	}
	// seat 1 sits next to the driver
	if got := rows[0].Cells[2].SeatNo; got != "1" {
		t.Fatalf("front seat should be 1, got %q", got)
	}
	// back row holds the last four
	back := rows[len(rows)-1]
	if got := back.Cells[0].SeatNo; got != "11" {
		t.Fatalf("back row should start at 11, got %q", got)
	}
}

func TestMapSeats_NumericSort(t *testing.T) {
	seats := []models.Seat{
		{ID: 10, SeatNo: "10", Status: models.SeatStatusAvailable},
		{ID: 2, SeatNo: "2", Status: models.SeatStatusAvailable},
		{ID: 1, SeatNo: "1", Status: models.SeatStatusAvailable},
	}
	rows := MapSeats(seats, "sprinter", nil)
	if got := rows[0].Cells[2].SeatNo; got != "1" {
		t.Fatalf("lexicographic sort leaked through, front seat %q", got)
	}
	if got := rows[1].Cells[0].SeatNo; got != "2" {
		t.Fatalf("expected seat 2 second, got %q", got)
	}
}

func TestMapSeats_OverflowCappedAtCapacity(t *testing.T) {
	rows := MapSeats(seatList(20), "sprinter", nil)
	seats, _ := countSeatCells(rows)
	if seats != 14 {
		t.Fatalf("overflow must be capped at 14, got %d", seats)
	}
}

func TestMapSeats_ShortListPadsWithEmpty(t *testing.T) {
	rows := MapSeats(seatList(10), "sprinter", nil)
	seats, _ := countSeatCells(rows)
	if seats != 10 {
		t.Fatalf("expected 10 seat cells, got %d", seats)
	}
	back := rows[len(rows)-1]
	if back.Cells[len(back.Cells)-1].Kind != CellEmpty {
		t.Fatalf("missing seats must render as empty cells")
	}
}

func TestMapSeats_SelectionAndAvailabilityMerged(t *testing.T) {
	seats := seatList(14)
	seats[3].Status = models.SeatStatusBooked
	selection := []models.SelectedSeat{{SeatID: 2, SeatNo: "2"}}

	rows := MapSeats(seats, "sprinter", selection)
	var selected, unavailable int
	for _, row := range rows {
		for _, cell := range row.Cells {
			if cell.IsSelected {
				selected++
				if cell.SeatID != 2 {
					t.Fatalf("wrong seat selected: %d", cell.SeatID)
				}
			}
			if cell.Kind == CellSeat && !cell.IsAvailable {
				unavailable++
			}
		}
	}
	if selected != 1 {
		t.Fatalf("expected 1 selected cell, got %d", selected)
	}
	if unavailable != 1 {
		t.Fatalf("expected 1 unavailable cell, got %d", unavailable)
	}
}

func TestMapSeats_CoasterRowShape(t *testing.T) {
	rows := MapSeats(seatList(44), "coaster", nil)
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	seats, _ := countSeatCells(rows)
	if seats != 44 {
		t.Fatalf("expected 44 seat cells, got %d", seats)
	}
	if rows[0].Arrangement != "driver" || rows[len(rows)-1].Arrangement != "back" {
		t.Fatalf("unexpected row arrangements %q %q", rows[0].Arrangement, rows[len(rows)-1].Arrangement)
	}
}
