// Package googlemaps queries the Google Places web service.
package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/logger"
)

const defaultBaseURL = "https://maps.googleapis.com"

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
	log        *logger.Logger
}

func NewClient(apiKey string, httpClient HTTPClient, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
		log:        log.With("client", "PlacesClient"),
	}
}

// WithBaseURL points the client at another host, such as a test server.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

type findPlaceResponse struct {
	Candidates []struct {
		Types []string `json:"types"`
	} `json:"candidates"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// FindPlaceTypes runs a Find Place from Text query and returns the first
// candidate's types. found is false when the service reports no match.
func (c *Client) FindPlaceTypes(ctx context.Context, query string) (types []string, found bool, err error) {
	if c.apiKey == "" {
		return nil, false, errors.New("google Maps API key not configured")
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", "types")
	params.Set("key", c.apiKey)
	apiURL := c.baseURL + "/maps/api/place/findplacefromtext/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, transportError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, false, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("places http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result findPlaceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, false, fmt.Errorf("failed to parse places response: %w", err)
	}

	switch result.Status {
	case "OK":
		if len(result.Candidates) == 0 {
			return nil, false, nil
		}
		types = result.Candidates[0].Types
		if types == nil {
			types = []string{}
		}
		return types, true, nil
	case "ZERO_RESULTS":
		return nil, false, nil
	default:
		c.log.Debug("place lookup failed", "query", query, "status", result.Status, "error_message", result.ErrorMessage)
		if result.ErrorMessage != "" {
			return nil, false, fmt.Errorf("places status %s: %s", result.Status, result.ErrorMessage)
		}
		return nil, false, fmt.Errorf("places status %s", result.Status)
	}
}

// transportError drops the request URL from err; it carries the API key.
func transportError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("places request failed: %w", uerr.Err)
	}
	return fmt.Errorf("places request failed: %w", err)
}
