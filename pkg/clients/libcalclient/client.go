// Package libcalclient fetches calendar events and appointment bookings from
// the LibCal API.
package libcalclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/greenburghlibrary/deskcheck/pkg/core/model"
)

// Client wraps the LibCal REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a LibCal client using the API's client-credentials
// token endpoint.
func NewClient(ctx context.Context, baseURL, clientID, clientSecret string) *Client {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	httpClient := cc.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// NewClientWithHTTPClient creates a client with a caller-supplied HTTP
// client. Used by tests to bypass the token flow.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type eventRecord struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
	Owner struct {
		Name string `json:"name"`
	} `json:"owner"`
}

// GetEvents fetches one calendar's events for a date window. Events carry
// their owner's name so the caller can attribute them to staff.
func (c *Client) GetEvents(ctx context.Context, calendarID int, from string, days int) ([]model.RawEvent, error) {
	query := url.Values{}
	query.Set("cal_id", strconv.Itoa(calendarID))
	query.Set("date", from)
	query.Set("days", strconv.Itoa(days))
	query.Set("limit", "500")

	var records []eventRecord
	if err := c.get(ctx, "/events", query, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch events for calendar %d: %w", calendarID, err)
	}

	events := make([]model.RawEvent, 0, len(records))
	for _, e := range records {
		events = append(events, model.RawEvent{
			Start:     e.Start,
			End:       e.End,
			Title:     e.Title,
			OwnerName: e.Owner.Name,
		})
	}
	return events, nil
}

type appointmentRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
	With struct {
		Name string `json:"name"`
	} `json:"with"`
}

// GetAppointments fetches booked appointments owned by the given LibCal user
// for a date window. Bookings carry the staff member's name in the "with"
// field.
func (c *Client) GetAppointments(ctx context.Context, ownerUserID int, from string, days int) ([]model.RawAppointment, error) {
	query := url.Values{}
	query.Set("user_id", strconv.Itoa(ownerUserID))
	query.Set("date", from)
	query.Set("days", strconv.Itoa(days))
	query.Set("limit", "500")

	var records []appointmentRecord
	if err := c.get(ctx, "/appointments/bookings", query, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch appointment bookings: %w", err)
	}

	appointments := make([]model.RawAppointment, 0, len(records))
	for _, a := range records {
		appointments = append(appointments, model.RawAppointment{
			From:     a.From,
			To:       a.To,
			WithName: a.With.Name,
		})
	}
	return appointments, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
