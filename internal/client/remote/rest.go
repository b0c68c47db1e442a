package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
	"github.com/adriancondrea/Bikes-Shop/internal/common"
	"github.com/adriancondrea/Bikes-Shop/internal/logging"
)

const bikePath = "/api/bike"

// RESTClient implements Client against the bike service JSON API.
type RESTClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	log     logging.Logger
}

// NewRESTClient returns a RESTClient for the service at baseURL
// (e.g. "http://localhost:3000"). Calls time out after timeout; a timed-out
// call surfaces as common.ErrUnavailable.
func NewRESTClient(baseURL string, timeout time.Duration, token TokenSource, log logging.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
		log:     log,
	}
}

// errorBody is the shape of error payloads returned by the service.
type errorBody struct {
	Issue []struct {
		Error string `json:"error"`
	} `json:"issue"`
	Message string `json:"message"`
}

// do issues one authenticated JSON request and decodes the response into out
// (if out is non-nil), mapping failures onto the common error taxonomy.
func (c *RESTClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("resolving credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := c.mapStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A malformed response counts as a transport failure.
		return fmt.Errorf("%w: decoding response: %v", common.ErrUnavailable, err)
	}
	return nil
}

// mapStatus translates a non-2xx response into a taxonomy error.
func (c *RESTClient) mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The server rejected the entity content.
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, resp.Status)
	}
}

func readErrorMessage(r io.Reader) string {
	var eb errorBody
	if err := json.NewDecoder(r).Decode(&eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	if len(eb.Issue) > 0 {
		return eb.Issue[0].Error
	}
	return ""
}

// List fetches the full remote collection.
func (c *RESTClient) List(ctx context.Context) ([]models.Bike, error) {
	var bikes []models.Bike
	if err := c.do(ctx, http.MethodGet, bikePath, nil, &bikes); err != nil {
		return nil, err
	}
	return bikes, nil
}

// Create stores a new bike and returns the server copy with its canonical id.
func (c *RESTClient) Create(ctx context.Context, bike models.Bike) (models.Bike, error) {
	bike.Id = ""
	var saved models.Bike
	if err := c.do(ctx, http.MethodPost, bikePath, bike, &saved); err != nil {
		return models.Bike{}, err
	}
	return saved, nil
}

// Update replaces the bike stored under bike.Id.
func (c *RESTClient) Update(ctx context.Context, bike models.Bike) (models.Bike, error) {
	var saved models.Bike
	if err := c.do(ctx, http.MethodPut, bikePath+"/"+bike.Id, bike, &saved); err != nil {
		return models.Bike{}, err
	}
	return saved, nil
}

// Delete removes the bike stored under id.
func (c *RESTClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, bikePath+"/"+id, nil, nil)
}

// Ping probes server reachability with a lightweight HEAD request. Any HTTP
// response, including an auth rejection, proves the server is reachable.
func (c *RESTClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+bikePath, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	resp.Body.Close()
	return nil
}
