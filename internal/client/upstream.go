package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"transitbook/internal/domain"
	"transitbook/internal/domain/models"
)

// Client talks to the upstream inventory/payment API. The upstream owns all
// real persistence, seat locking and settlement; this client only carries its
// request/response contract.
type Client struct {
	httpClient HTTPClient
	baseURL    string
}

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "http://localhost:9000/api/v1",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type TripSearchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type DraftBookingRequest struct {
	TripID        int64   `json:"tripId"`
	SeatIDs       []int64 `json:"seatId"`
	PassengerName string  `json:"passengerName"`
	Email         string  `json:"email"`
	Mobile        string  `json:"mobile"`
	NextOfKinName string  `json:"nextOfKinName"`
	NextOfKinTel  string  `json:"nextOfKinPhone"`
}

type DraftBookingResponse struct {
	ID           int64  `json:"id"`
	BookingToken string `json:"bookingToken"`
}

type PaymentInitRequest struct {
	Email          string  `json:"email"`
	AmountKobo     int64   `json:"amount"`
	BookingID      int64   `json:"bookingId"`
	SeatIDs        []int64 `json:"seatIds"`
	IsSplitPayment bool    `json:"isSplitPayment,omitempty"`
}

type PaymentInitResponse struct {
	Reference string `json:"paystackRef"`
}

type PaymentVerifyRequest struct {
	Reference string  `json:"reference"`
	SeatIDs   []int64 `json:"seatIds"`
}

type PaymentVerifyResponse struct {
	TicketURL string `json:"ticketUrl,omitempty"`
}

// SearchTrips lists bookable departures for a route and date.
func (c *Client) SearchTrips(ctx context.Context, req TripSearchRequest) ([]models.TripOffer, error) {
	var out struct {
		Trips []models.TripOffer `json:"trips"`
	}
	if err := c.post(ctx, "/trips/search", "search_trips", req, &out); err != nil {
		return nil, err
	}
	return out.Trips, nil
}

// ListSeats fetches the seat inventory for one trip.
func (c *Client) ListSeats(ctx context.Context, tripID int64) ([]models.Seat, error) {
	var out struct {
		Seats []models.Seat `json:"seats"`
	}
	path := "/trips/" + strconv.FormatInt(tripID, 10) + "/seats"
	if err := c.get(ctx, path, "list_seats", &out); err != nil {
		return nil, err
	}
	return out.Seats, nil
}

// CreateDraftBooking creates the provisional booking and returns its id plus
// the booking token used by every later step.
func (c *Client) CreateDraftBooking(ctx context.Context, req DraftBookingRequest) (DraftBookingResponse, error) {
	var out DraftBookingResponse
	err := c.post(ctx, "/bookings/draft", "create_draft", req, &out)
	return out, err
}

// GetBookingByToken fetches the full booking for the confirmation screen.
func (c *Client) GetBookingByToken(ctx context.Context, token string) (models.BookingDetail, error) {
	var out models.BookingDetail
	err := c.get(ctx, "/bookings/by-token/"+url.PathEscape(token), "booking_by_token", &out)
	return out, err
}

// InitializePayment opens a payment session and returns the provider reference
// the widget is opened with.
func (c *Client) InitializePayment(ctx context.Context, req PaymentInitRequest) (string, error) {
	var out PaymentInitResponse
	if err := c.post(ctx, "/payments/initialize", "payment_initialize", req, &out); err != nil {
		return "", err
	}
	return out.Reference, nil
}

// VerifyPayment confirms a transaction server-side. The widget's success
// callback alone is never trusted.
func (c *Client) VerifyPayment(ctx context.Context, req PaymentVerifyRequest) (PaymentVerifyResponse, error) {
	var out PaymentVerifyResponse
	err := c.post(ctx, "/payments/verify", "payment_verify", req, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path, op string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return domain.UpstreamError{Op: op, Err: err}
	}
	return c.do(req, op, out)
}

func (c *Client) post(ctx context.Context, path, op string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.UpstreamError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return domain.UpstreamError{Op: op, Err: err}
	}
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.UpstreamError{Op: op, Err: err}
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.NotFoundError{Resource: op, Err: domain.UpstreamError{Op: op, Status: resp.StatusCode, Msg: upstreamMessage(raw)}}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.UpstreamError{
			Op:     op,
			Status: resp.StatusCode,
			Msg:    upstreamMessage(raw),
		}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// upstreamMessage pulls a human-readable message out of an error body.
func upstreamMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(raw)
}
