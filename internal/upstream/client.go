// Package upstream reads the user's selected activities from the activities service.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"example.com/itinerary/internal/domain"
)

// Client calls GET {base}/activities?userId={id}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client with the provided request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type activitiesResponse struct {
	Data []domain.Activity `json:"data"`
}

// FetchActivities performs a single request with no retries. A non-200 status
// or transport failure wraps domain.ErrUpstreamUnavailable; an empty list
// returns domain.ErrNoActivitiesSelected.
func (c *Client) FetchActivities(ctx context.Context, userID string) ([]domain.Activity, error) {
	endpoint := fmt.Sprintf("%s/activities?userId=%s", c.baseURL, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload activitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode activities: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(payload.Data) == 0 {
		return nil, domain.ErrNoActivitiesSelected
	}
	return payload.Data, nil
}
