package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"transitbook/internal/domain/models"
	"transitbook/internal/utils"
)

// DocsService renders the e-ticket summary PDF for a confirmed booking.
type DocsService struct {
	Wizard    WizardService
	RequestID string
}

// GenerateETicket fetches the confirmed booking for a session and renders it.
func (s DocsService) GenerateETicket(ctx context.Context, sessionID string) ([]byte, string, error) {
	booking, err := s.Wizard.Confirmation(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("booking_id=%d", booking.BookingID))
	return buildETicketPDF(booking)
}

func buildETicketPDF(b models.BookingDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	seats := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		seats = append(seats, seat.SeatNo)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger      : %s", safe(b.PassengerName, "-")),
		fmt.Sprintf("Phone          : %s", safe(b.PassengerPhone, "-")),
		fmt.Sprintf("Seats          : %s", safe(strings.Join(seats, ", "), "-")),
		fmt.Sprintf("Route          : %s -> %s", safe(b.Trip.RouteFrom, "-"), safe(b.Trip.RouteTo, "-")),
		fmt.Sprintf("Date/Time      : %s %s", safe(b.Trip.TripDate, "-"), safe(b.Trip.DepartureTime, "-")),
		fmt.Sprintf("Vehicle        : %s (%s)", safe(b.Trip.BusLabel, "-"), safe(b.Trip.BusType, "-")),
		fmt.Sprintf("Amount         : %s", utils.FormatNaira(b.AmountKobo)),
		fmt.Sprintf("Payment        : %s", safe(b.PaymentStatus, "-")),
		fmt.Sprintf("Booking Code   : #%d", b.BookingID),
		fmt.Sprintf("Ticket Code    : TCK-%d", b.BookingID),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this e-ticket at the terminal before departure. Valid for the listed seats only.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("eticket-%d.pdf", b.BookingID)
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
