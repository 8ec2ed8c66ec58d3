// Package api is a typed client for the remote habit service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitline/internal/constants"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/models"
)

// Client talks to the habit service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken authenticates every request with the given ID token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. It replaces the timeout of any client set
// with WithHTTPClient, so apply it last.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base URL cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base URL %q", baseURL)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: constants.DefaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool { return c.token != "" }

// Filter narrows the public habit listing.
type Filter struct {
	Category string
	Search   string
}

func (f Filter) query() string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// User is the profile registered with the service after sign-in.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// ListPublic returns public habits matching f.
func (c *Client) ListPublic(ctx context.Context, f Filter) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, "/habits"+f.query(), nil, &habits); err != nil {
		return nil, fmt.Errorf("listing public habits: %w", err)
	}
	return habits, nil
}

// Featured returns the service's featured habits.
func (c *Client) Featured(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, "/habits/featured", nil, &habits); err != nil {
		return nil, fmt.Errorf("listing featured habits: %w", err)
	}
	return habits, nil
}

// ListByUser returns every habit owned by email.
func (c *Client) ListByUser(ctx context.Context, email string) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, "/habits/"+url.PathEscape(email), nil, &habits); err != nil {
		return nil, fmt.Errorf("listing habits for %s: %w", email, err)
	}
	return habits, nil
}

func (c *Client) Get(ctx context.Context, id string) (models.Habit, error) {
	var h models.Habit
	if err := c.do(ctx, http.MethodGet, "/habit/"+url.PathEscape(id), nil, &h); err != nil {
		return models.Habit{}, fmt.Errorf("fetching habit %s: %w", id, err)
	}
	return h, nil
}

// Create submits a new habit.
func (c *Client) Create(ctx context.Context, h models.NewHabit) (models.CreateResult, error) {
	var res models.CreateResult
	if err := c.do(ctx, http.MethodPost, "/habits", h, &res); err != nil {
		return models.CreateResult{}, fmt.Errorf("creating habit: %w", err)
	}
	return res, nil
}

// Complete marks habit id completed today. The service decides what "today"
// means; a refusal is reported as ErrAlreadyCompleted.
func (c *Client) Complete(ctx context.Context, id string) (models.CompleteResult, error) {
	var res models.CompleteResult
	if err := c.do(ctx, http.MethodPatch, "/habits/complete/"+url.PathEscape(id), nil, &res); err != nil {
		return models.CompleteResult{}, fmt.Errorf("completing habit %s: %w", id, err)
	}
	if res.ModifiedCount == 0 && res.Message == constants.AlreadyCompletedMessage {
		return res, ErrAlreadyCompleted
	}
	return res, nil
}

// RegisterUser records the signed-in user's profile. The service ignores
// users it already knows.
func (c *Client) RegisterUser(ctx context.Context, u User) error {
	if err := c.do(ctx, http.MethodPost, "/users", u, nil); err != nil {
		return fmt.Errorf("registering user: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
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
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
