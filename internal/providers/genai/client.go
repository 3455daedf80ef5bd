package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"geminipocket/internal/infra"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultImageModel = "gemini-2.5-flash-image-preview"
	DefaultVideoModel = "veo-3.0-generate-preview"

	apiKeyHeader = "x-goog-api-key"
	maxBodyBytes = 64 << 20
)

// ErrNoAPIKey is returned when no upstream key is available for a call.
var ErrNoAPIKey = errors.New("genai: api key not configured")

// KeySource resolves the upstream API key per call so a rotated key takes
// effect without restarting the relay.
type KeySource func(ctx context.Context) (string, error)

// StaticKey returns a KeySource that always yields key.
func StaticKey(key string) KeySource {
	key = strings.TrimSpace(key)
	return func(context.Context) (string, error) { return key, nil }
}

// Options controls how the Gemini client is configured.
type Options struct {
	Keys       KeySource
	BaseURL    string
	ImageModel string
	VideoModel string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin translator to the Gemini and Veo REST endpoints. It holds
// no per-operation state.
type Client struct {
	keys       KeySource
	baseURL    string
	imageModel string
	videoModel string
	httpClient *http.Client
	logger     infra.Logger
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with a generous timeout will be created.
func NewClient(opts Options) (*Client, error) {
	if opts.Keys == nil {
		return nil, errors.New("genai: key source is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	videoModel := strings.TrimSpace(opts.VideoModel)
	if videoModel == "" {
		videoModel = DefaultVideoModel
	}

	logger := infra.NopLogger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		keys:       opts.Keys,
		baseURL:    baseURL,
		imageModel: imageModel,
		videoModel: videoModel,
		httpClient: client,
		logger:     logger,
	}, nil
}

// ImageModel returns the configured image model identifier.
func (c *Client) ImageModel() string { return c.imageModel }

// VideoModel returns the configured video model identifier.
func (c *Client) VideoModel() string { return c.videoModel }

// do sends one request and decodes a 2xx JSON body into out. Any non-2xx is
// classified; nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	key, err := c.keys(ctx)
	if err != nil {
		return fmt.Errorf("resolve api key: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		return ErrNoAPIKey
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, key)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("genai: request failed")
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		perr := Classify(resp.StatusCode, data)
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("category", string(perr.Category)).
			Str("provider_status", perr.Status).
			Str("path", path).
			Msg("genai: provider returned error")
		return perr
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("bytes", len(data)).
		Dur("took", time.Since(start)).
		Msg("genai: request ok")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return protocolError("decode response: %v", err)
	}
	return nil
}
