// Package libstafferclient fetches staff shifts and time off from the
// LibStaffer scheduling API.
package libstafferclient

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

// Client wraps the LibStaffer REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a LibStaffer client. Tokens come from the API's
// client-credentials endpoint and are refreshed automatically.
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

type shiftsResponse struct {
	Data struct {
		Shifts []struct {
			From string `json:"from"`
			To   string `json:"to"`
			Name string `json:"name"`
		} `json:"shifts"`
	} `json:"data"`
}

// GetShifts fetches one user's shifts on one schedule for a date window
func (c *Client) GetShifts(ctx context.Context, userID, scheduleID int, from string, days int) ([]model.RawShift, error) {
	query := url.Values{}
	query.Set("date", from)
	query.Set("days", strconv.Itoa(days))
	query.Set("scheduleId", strconv.Itoa(scheduleID))

	var resp shiftsResponse
	if err := c.get(ctx, fmt.Sprintf("/users/shifts/%d", userID), query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch shifts for user %d schedule %d: %w", userID, scheduleID, err)
	}

	shifts := make([]model.RawShift, 0, len(resp.Data.Shifts))
	for _, s := range resp.Data.Shifts {
		shifts = append(shifts, model.RawShift{
			From:         s.From,
			To:           s.To,
			ScheduleName: s.Name,
		})
	}
	return shifts, nil
}

type timeOffResponse struct {
	Data struct {
		TimeOff []struct {
			From     string `json:"from"`
			To       string `json:"to"`
			Category string `json:"category"`
		} `json:"timeOff"`
	} `json:"data"`
}

// GetTimeOff fetches one user's approved time off for a date window
func (c *Client) GetTimeOff(ctx context.Context, userID int, from string, days int) ([]model.RawTimeOff, error) {
	query := url.Values{}
	query.Set("date", from)
	query.Set("days", strconv.Itoa(days))

	var resp timeOffResponse
	if err := c.get(ctx, fmt.Sprintf("/users/timeoff/%d", userID), query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch time off for user %d: %w", userID, err)
	}

	timeOff := make([]model.RawTimeOff, 0, len(resp.Data.TimeOff))
	for _, t := range resp.Data.TimeOff {
		timeOff = append(timeOff, model.RawTimeOff{
			From:     t.From,
			To:       t.To,
			Category: t.Category,
		})
	}
	return timeOff, nil
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
