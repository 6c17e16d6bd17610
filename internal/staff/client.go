// Package staff is the HTTP client for the CRM staff API. It implements
// bizcard.Fetcher and bizcard.LogoLoader.
package staff

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	bizcard "github.com/porticus-lab/go-bizcard"
)

const (
	maxBodyBytes = 4 << 20
	maxLogoBytes = 2 << 20
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

// Client talks to the staff API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a client for baseURL. A non-empty token is sent as a
// bearer token on API calls, never on logo downloads.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "staff-client")),
	}
}

// GetStaff fetches the staff member with the given id.
func (c *Client) GetStaff(ctx context.Context, userID string) (*bizcard.AgentRecord, error) {
	endpoint := fmt.Sprintf("%s/staff/%s", c.baseURL, url.PathEscape(userID))
	var rec bizcard.AgentRecord
	if err := c.getJSON(ctx, endpoint, &rec); err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &rec, nil
}

// CurrentUserAllData fetches the logged-in user's aggregate payload.
func (c *Client) CurrentUserAllData(ctx context.Context) (*bizcard.AllData, error) {
	var all bizcard.AllData
	if err := c.getJSON(ctx, c.baseURL+"/users/me/all-data", &all); err != nil {
		return nil, fmt.Errorf("get all data: %w", err)
	}
	return &all, nil
}

// LoadLogo downloads an image and returns it as a base64 data: URI.
func (c *Client) LoadLogo(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("load logo: unsupported url %q", rawURL)
	}
	body, err := c.do(ctx, u.String(), false, maxLogoBytes)
	if err != nil {
		return "", fmt.Errorf("load logo: %w", err)
	}
	mime := http.DetectContentType(body)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("load logo: %s is %s, not an image", rawURL, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// envelope accepts both bare records and {"data": ...} wrappers.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.do(ctx, endpoint, true, maxBodyBytes)
	if err != nil {
		return err
	}
	body = bytes.TrimSpace(body)
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, auth bool, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}
	if auth {
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("staff_api_request",
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Method: req.Method, URL: endpoint, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, errors.New("response body too large")
	}
	return body, nil
}

var (
	_ bizcard.Fetcher    = (*Client)(nil)
	_ bizcard.LogoLoader = (*Client)(nil)
)
