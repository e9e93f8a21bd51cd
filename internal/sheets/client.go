// Package sheets talks to the spreadsheet-backed web app that stores
// restaurant configuration and receives orders.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
	"github.com/Lixing-Zhang/lunch-order/pkg/logger"
)

// ErrScriptURLMissing is returned by every call when no script URL is configured
var ErrScriptURLMissing = errors.New("spreadsheet script URL is not configured")

// HTTPClient is the subset of *http.Client used here
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a failure reported by the backend, either as a non-2xx status
// or as a {"success": false} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		if e.Message != "" {
			return fmt.Sprintf("HTTP error: status %d: %s", e.StatusCode, e.Message)
		}
		return fmt.Sprintf("HTTP error: status %d", e.StatusCode)
	}
	return e.Message
}

// envelope is the response shape shared by every backend action
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client calls the backend web app
type Client struct {
	scriptURL string
	http      HTTPClient
	log       *slog.Logger
}

// NewClient creates a client. A nil httpClient gets an *http.Client with the given timeout.
func NewClient(scriptURL string, httpClient HTTPClient, timeout time.Duration, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		scriptURL: scriptURL,
		http:      httpClient,
		log:       logger.WithComponent(log, "sheets"),
	}
}

// FetchConfiguration reads the enabled restaurant and its meals
func (c *Client) FetchConfiguration(ctx context.Context) (models.Configuration, error) {
	var cfg models.Configuration
	env, err := c.get(ctx, nil)
	if err == nil {
		err = decodeData(env, "failed to load configuration", &cfg)
	}
	if err != nil {
		return models.Configuration{}, fmt.Errorf("fetch configuration failed: %w", err)
	}

	c.log.Debug("configuration fetched", "restaurant", cfg.RestaurantName, "meals", len(cfg.Meals))
	return cfg, nil
}

// SubmitOrder appends one order to the order sheet and returns the backend's message
func (c *Client) SubmitOrder(ctx context.Context, order models.Order) (string, error) {
	env, err := c.post(ctx, map[string]interface{}{"order": order})
	if err == nil && !env.Success {
		err = &APIError{Message: orDefault(env.Error, "failed to submit order")}
	}
	if err != nil {
		return "", fmt.Errorf("submit order failed: %w", err)
	}

	c.log.Info("order submitted", "meal_id", order.MealID, "quantity", order.MealQuantity, "total", order.TotalAmount)
	return env.Message, nil
}

// ImportMenuData replaces the restaurant's menu with data
func (c *Client) ImportMenuData(ctx context.Context, data models.ImportMenuData) (models.ImportResult, error) {
	var result models.ImportResult
	env, err := c.post(ctx, map[string]interface{}{
		"action": "import",
		"data":   data,
	})
	if err == nil {
		err = decodeData(env, "failed to import menu", &result)
	}
	if err != nil {
		return models.ImportResult{}, fmt.Errorf("import menu failed: %w", err)
	}

	c.log.Info("menu imported",
		"restaurant", result.RestaurantName,
		"meals", result.MealsImported,
		"addons", result.AddonsImported,
	)
	return result, nil
}

// ListRestaurants returns every restaurant known to the backend
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	env, err := c.get(ctx, url.Values{"action": {"getRestaurants"}})
	if err == nil {
		err = decodeData(env, "failed to load restaurants", &restaurants)
	}
	if err != nil {
		return nil, fmt.Errorf("list restaurants failed: %w", err)
	}
	return restaurants, nil
}

// ToggleRestaurant flips a restaurant on or off. The backend disables every
// other restaurant when one is enabled.
func (c *Client) ToggleRestaurant(ctx context.Context, restaurantName string) error {
	env, err := c.get(ctx, url.Values{
		"action":         {"toggleRestaurant"},
		"restaurantName": {restaurantName},
	})
	if err == nil && !env.Success {
		err = &APIError{Message: orDefault(env.Error, "failed to update restaurant")}
	}
	if err != nil {
		return fmt.Errorf("toggle restaurant failed: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, query url.Values) (*envelope, error) {
	if c.scriptURL == "" {
		return nil, ErrScriptURLMissing
	}

	target := c.scriptURL
	if len(query) > 0 {
		u, err := url.Parse(c.scriptURL)
		if err != nil {
			return nil, fmt.Errorf("invalid script URL: %w", err)
		}
		q := u.Query()
		for k, v := range query {
			q[k] = v
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// post sends JSON as text/plain, which the web app expects
func (c *Client) post(ctx context.Context, body interface{}) (*envelope, error) {
	if c.scriptURL == "" {
		return nil, ErrScriptURLMissing
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed", "method", req.Method, "error", err)
		return nil, fmt.Errorf("network request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("backend request",
		"method", req.Method,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env envelope
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&env) == nil {
			apiErr.Message = env.Error
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apiErr
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &env, nil
}

// decodeData checks success and unmarshals env.Data into out
func decodeData(env *envelope, fallback string, out interface{}) error {
	if !env.Success {
		return &APIError{Message: orDefault(env.Error, fallback)}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &APIError{Message: orDefault(env.Error, fallback)}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
