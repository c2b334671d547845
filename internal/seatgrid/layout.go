package seatgrid

import (
	"sort"
	"strconv"
	"strings"

	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
)

// CellKind marks what occupies one grid position.
type CellKind string

const (
	CellSeat   CellKind = "seat"
	CellDriver CellKind = "driver"
	CellAisle  CellKind = "aisle"
	CellEmpty  CellKind = "empty"
)

// RowTemplate describes one physical row. Arrangement is a rendering tag
// ("driver", "2+1", "2+2", "back"); Cells drive the seat fill order.
type RowTemplate struct {
	Arrangement string
	Cells       []CellKind
}

// Layout is the fixed seat map for one vehicle class.
type Layout struct {
	BusType  domain.BusType
	Capacity int
	Rows     []RowTemplate
}

var sprinterLayout = Layout{
	BusType:  domain.BusTypeSprinter,
	Capacity: 14,
	Rows: []RowTemplate{
		{Arrangement: "driver", Cells: []CellKind{CellDriver, CellAisle, CellSeat}},
		{Arrangement: "2+1", Cells: []CellKind{CellSeat, CellSeat, CellAisle, CellSeat}},
		{Arrangement: "2+1", Cells: []CellKind{CellSeat, CellSeat, CellAisle, CellSeat}},
		{Arrangement: "2+1", Cells: []CellKind{CellSeat, CellSeat, CellAisle, CellSeat}},
		{Arrangement: "back", Cells: []CellKind{CellSeat, CellSeat, CellSeat, CellSeat}},
	},
}

var coasterLayout = Layout{
	BusType:  domain.BusTypeCoaster,
	Capacity: 44,
	Rows: append([]RowTemplate{
		{Arrangement: "driver", Cells: []CellKind{CellDriver, CellAisle, CellEmpty, CellEmpty}},
	}, append(repeatRow(RowTemplate{
		Arrangement: "2+2",
		Cells:       []CellKind{CellSeat, CellSeat, CellAisle, CellSeat, CellSeat},
	}, 10), RowTemplate{
		Arrangement: "back",
		Cells:       []CellKind{CellSeat, CellSeat, CellSeat, CellSeat},
	})...),
}

func repeatRow(r RowTemplate, n int) []RowTemplate {
	out := make([]RowTemplate, n)
	for i := range out {
		out[i] = r
	}
	return out
}

// LayoutFor returns the template for a bus type string; unknown types fall
// back to the sprinter, the smaller vehicle.
func LayoutFor(busType string) Layout {
	if domain.BusType(strings.ToLower(strings.TrimSpace(busType))) == domain.BusTypeCoaster {
		return coasterLayout
	}
	return sprinterLayout
}

// GridCell is one rendered position: a seat with merged availability and
// selection state, or a placeholder (driver, aisle, empty).
type GridCell struct {
	Kind        CellKind `json:"kind"`
	SeatID      int64    `json:"seatId,omitempty"`
	SeatNo      string   `json:"seatNo,omitempty"`
	IsAvailable bool     `json:"isAvailable,omitempty"`
	IsSelected  bool     `json:"isSelected,omitempty"`
}

// GridRow is one rendered row of the bus.
type GridRow struct {
	Arrangement string     `json:"arrangement"`
	Cells       []GridCell `json:"cells"`
}

// MapSeats reconciles the upstream seat list with the local selection into the
// positional layout: seats are sorted numerically by seat number, capped at
// the vehicle capacity, and poured row by row into the template.
func MapSeats(seats []models.Seat, busType string, selection []models.SelectedSeat) []GridRow {
	layout := LayoutFor(busType)

	sorted := make([]models.Seat, len(seats))
	copy(sorted, seats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return seatOrdinal(sorted[i].SeatNo) < seatOrdinal(sorted[j].SeatNo)
	})
	if len(sorted) > layout.Capacity {
		sorted = sorted[:layout.Capacity]
	}

	selected := make(map[int64]bool, len(selection))
	for _, s := range selection {
		selected[s.SeatID] = true
	}

	rows := make([]GridRow, 0, len(layout.Rows))
	next := 0
	for _, tpl := range layout.Rows {
		row := GridRow{Arrangement: tpl.Arrangement, Cells: make([]GridCell, 0, len(tpl.Cells))}
		for _, kind := range tpl.Cells {
			if kind != CellSeat {
				row.Cells = append(row.Cells, GridCell{Kind: kind})
				continue
			}
			if next >= len(sorted) {
				row.Cells = append(row.Cells, GridCell{Kind: CellEmpty})
				continue
			}
			seat := sorted[next]
			next++
			row.Cells = append(row.Cells, GridCell{
				Kind:        CellSeat,
				SeatID:      seat.ID,
				SeatNo:      seat.SeatNo,
				IsAvailable: seat.IsAvailable(),
				IsSelected:  selected[seat.ID],
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// seatOrdinal orders seat labels numerically: "2" before "10", "A2" before
// "A10", purely alphabetic labels after numbered ones.
func seatOrdinal(seatNo string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, seatNo)
	if digits == "" {
		return 1 << 20
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 1 << 20
	}
	return n
}
