package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"careslot/pkg/model"
)

// BookingClient is a typed HTTP client for the bookings service, used by
// external triggers (the sweeper job) and integration tooling.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// SetBearerToken is required when the bookings service runs with JWT auth:
// the sweep route is admin-gated, so the token must carry the admin role.
func (c *BookingClient) SetBearerToken(token string) {
	c.httpClient.SetBearerToken(token)
}

func (c *BookingClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *BookingClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", body)
}

func (c *BookingClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/bookings/id/" + url.PathEscape(id))
}

func (c *BookingClient) Cancel(id string) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings/id/"+url.PathEscape(id)+"/cancel", nil)
}

func (c *BookingClient) Availability(specialistID, date string) (*Response, error) {
	q := url.Values{}
	q.Set("specialist_id", specialistID)
	q.Set("date", date)
	return c.httpClient.GET("/api/v1/bookings/availability?" + q.Encode())
}

// SweepStale triggers the stale-booking sweep. The endpoint is idempotent,
// so repeated or overlapping triggers are safe.
func (c *BookingClient) SweepStale() (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings/sweep", nil)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper: %w", err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json: %w", err)
	}

	return &booking, nil
}

func (c *BookingClient) DecodeSweepResult(resp *Response) (int64, error) {
	var wrapper struct {
		Data struct {
			Skipped int64 `json:"skipped"`
		} `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return 0, fmt.Errorf("could not decode sweep result: %w", err)
	}

	return wrapper.Data.Skipped, nil
}
