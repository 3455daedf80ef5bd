// Package relayclient talks to the geminipocket relay: account calls, image
// jobs, video submission, status polling and artifact download.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geminipocket/internal/infra"
)

// DefaultBaseURL is the public relay deployment.
const DefaultBaseURL = "https://geminipocket.guitaripod.workers.dev"

const maxErrorBody = 4 << 10

// Client is a relay API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     infra.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey attaches the relay API key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l infra.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the relay at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     infra.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the relay root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// HasAPIKey reports whether requests carry a bearer token.
func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// Credentials is the register/login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool   `json:"success"`
	APIKey  string `json:"api_key,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImageResponse carries a base64 encoded image.
type ImageResponse struct {
	Success  bool   `json:"success"`
	Image    string `json:"image,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Error    string `json:"error,omitempty"`
}

// VideoRequest is the body of /generate_video and /edit_video.
type VideoRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
	Image          string `json:"image,omitempty"`
	MimeType       string `json:"mime_type,omitempty"`
}

type operationResponse struct {
	Success       bool   `json:"success"`
	OperationName string `json:"operation_name,omitempty"`
	Error         string `json:"error,omitempty"`
}

// VideoStatus is one answer from /video_status.
type VideoStatus struct {
	Success  bool   `json:"success"`
	Done     bool   `json:"done"`
	VideoURI string `json:"video_uri,omitempty"`
	Video    string `json:"video,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Health is the relay liveness answer.
type Health struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Time converts the millisecond timestamp to a time.Time.
func (h *Health) Time() time.Time {
	if h.Timestamp == 0 {
		return time.Time{}
	}
	return time.UnixMilli(h.Timestamp).UTC()
}

// Info describes the relay and its endpoints.
type Info struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Register creates an account and returns its API key.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/register", email, password)
}

// Login exchanges credentials for the account's API key.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.authenticate(ctx, "/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (string, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, path, Credentials{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &APIError{HTTPStatus: http.StatusOK, Message: nonEmpty(resp.Error, "request rejected")}
	}
	if resp.APIKey == "" {
		return "", errors.New("relayclient: no api key in response")
	}
	return resp.APIKey, nil
}

// GenerateImage asks the relay for a new image from a prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*ImageResponse, error) {
	body := map[string]string{"prompt": prompt}
	return c.image(ctx, "/generate", body)
}

// EditImage transforms a base64 encoded image according to prompt.
func (c *Client) EditImage(ctx context.Context, prompt, imageB64, mimeType string) (*ImageResponse, error) {
	body := map[string]string{"prompt": prompt, "image": imageB64, "mime_type": mimeType}
	return c.image(ctx, "/edit", body)
}

func (c *Client) image(ctx context.Context, path string, body any) (*ImageResponse, error) {
	var resp ImageResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, generationFailure("", err)
	}
	if !resp.Success {
		return nil, &GenerationError{Message: nonEmpty(resp.Error, "unknown error")}
	}
	if resp.Image == "" {
		return nil, &GenerationError{Message: "no image data in response"}
	}
	return &resp, nil
}

// GenerateVideo submits a text-to-video job and returns its operation name.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) (string, error) {
	req.Image, req.MimeType = "", ""
	return c.startVideo(ctx, "/generate_video", req)
}

// EditVideo submits an image-to-video job and returns its operation name.
func (c *Client) EditVideo(ctx context.Context, req VideoRequest) (string, error) {
	if req.Image == "" {
		return "", errors.New("relayclient: edit video requires an image")
	}
	return c.startVideo(ctx, "/edit_video", req)
}

func (c *Client) startVideo(ctx context.Context, path string, req VideoRequest) (string, error) {
	var resp operationResponse
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return "", generationFailure("", err)
	}
	if !resp.Success {
		return "", &GenerationError{Message: nonEmpty(resp.Error, "unknown error")}
	}
	if resp.OperationName == "" {
		return "", &GenerationError{Message: "no operation name in response"}
	}
	return resp.OperationName, nil
}

// VideoStatus fetches the current state of an operation. Relay rejections
// come back as *APIError; the envelope is not interpreted here.
func (c *Client) VideoStatus(ctx context.Context, operation string) (*VideoStatus, error) {
	var resp VideoStatus
	if err := c.do(ctx, http.MethodGet, "/video_status/"+operationPath(operation), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks relay liveness.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Info returns relay metadata.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var resp Info
	if err := c.do(ctx, http.MethodGet, "/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("relay request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("relay request")

	return c.handleResponse(resp, out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "geminipocket-cli")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) handleResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		var env struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			apiErr.Message = env.Error
		} else {
			apiErr.Body = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// operationPath escapes each segment of a provider operation name so the
// slash separated form survives the trip as a path suffix.
func operationPath(name string) string {
	segments := strings.Split(strings.Trim(name, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
