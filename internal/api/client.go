// Package api talks to the public LeetCode statistics service.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"leetstats/internal/telemetry"
	"leetstats/pkg/logger"
	"leetstats/pkg/models"
	"leetstats/pkg/utils"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 1 << 20

// Client handles HTTP API communication
type Client struct {
	baseURL    string
	shape      models.Shape
	httpClient *http.Client
}

// NewClient creates a new API client. A zero timeout uses utils.DefaultTimeout.
func NewClient(baseURL string, shape models.Shape, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = utils.DefaultTimeout
	}
	if shape == "" {
		shape = models.ShapeFlat
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		shape:   shape,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Shape returns the response layout this client requests
func (c *Client) Shape() models.Shape {
	return c.shape
}

// endpoint builds the request URL for username
func (c *Client) endpoint(username string) string {
	escaped := url.PathEscape(username)
	if c.shape == models.ShapeProfile {
		return c.baseURL + "/userProfile/" + escaped
	}
	return c.baseURL + "/" + escaped
}

// FetchStats performs exactly one GET for username.
// The caller passes a trimmed, non-empty username.
func (c *Client) FetchStats(ctx context.Context, username string) (*models.RawStatsResponse, error) {
	target := c.endpoint(username)

	ctx, span := telemetry.StartSpan(ctx, "api.FetchStats")
	defer span.End()
	span.SetAttributes(
		attribute.String("leetstats.username", username),
		attribute.String("leetstats.shape", string(c.shape)),
		attribute.String("http.url", target),
	)

	start := time.Now()
	body, status, err := c.doRequest(ctx, target)
	elapsed := time.Since(start)

	statusLabel := "error"
	if status != 0 {
		statusLabel = strconv.Itoa(status)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	telemetry.FetchDuration.WithLabelValues(string(c.shape), statusLabel).Observe(elapsed.Seconds())
	logger.Upstream(target, status, int(elapsed.Milliseconds()))

	if err == nil {
		err = c.classify(status, body)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &models.RawStatsResponse{Shape: c.shape, Body: body}, nil
}

// doRequest performs the GET and reads the body. Transport failures,
// including timeouts and cancellation, come back as network errors.
func (c *Client) doRequest(ctx context.Context, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, models.NewNetworkError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, models.NewNetworkError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, models.NewNetworkError(fmt.Errorf("failed to read response: %w", err))
	}
	return body, resp.StatusCode, nil
}

// classify applies the status and payload checks to a completed response
func (c *Client) classify(status int, body []byte) error {
	if status == http.StatusNotFound {
		return models.NewNotFoundError(status, nil)
	}
	if status < 200 || status >= 300 {
		return models.NewHTTPError(status)
	}
	if !gjson.ValidBytes(body) {
		return models.NewParseError(fmt.Errorf("response body is not valid JSON"))
	}

	root := gjson.ParseBytes(body)
	if !userFound(c.shape, root) {
		return models.NewNotFoundError(status, notFoundReason(root))
	}
	return nil
}

func userFound(shape models.Shape, root gjson.Result) bool {
	switch shape {
	case models.ShapeProfile:
		return profileFound(root)
	case models.ShapeAuto:
		// a string status is the flat layout and decides on its own
		if root.Get("status").Type == gjson.String {
			return flatFound(root)
		}
		return profileFound(root)
	default:
		return flatFound(root)
	}
}

func flatFound(root gjson.Result) bool {
	status := root.Get("status")
	return status.Type == gjson.String && status.Str == "success"
}

func profileFound(root gjson.Result) bool {
	if !root.IsObject() || root.Get("errors").Exists() {
		return false
	}
	return root.Get("ranking").Exists() || root.Get("matchedUserStats").Exists()
}

// notFoundReason keeps the upstream explanation, if it sent one
func notFoundReason(root gjson.Result) error {
	for _, path := range []string{"message", "errors.0.message"} {
		if msg := root.Get(path); msg.Type == gjson.String && msg.Str != "" {
			return fmt.Errorf("upstream: %s", msg.Str)
		}
	}
	return nil
}
