package relayclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Downloader fetches finished artifacts straight from the provider.
type Downloader struct {
	HTTPClient *http.Client

	// ProviderKey, when set, is sent as x-goog-api-key. Provider file URIs
	// normally require it.
	ProviderKey string
}

// Fetch downloads the artifact at uri. Any transport failure or non-2xx
// answer is a *RetrievalError.
func (d *Downloader) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &RetrievalError{URI: uri, Err: err}
	}
	if d.ProviderKey != "" {
		req.Header.Set("x-goog-api-key", d.ProviderKey)
	}

	hc := d.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Minute}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, &RetrievalError{URI: uri, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RetrievalError{URI: uri, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{URI: uri, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) == 0 {
		return nil, &RetrievalError{URI: uri, Err: fmt.Errorf("empty body")}
	}
	return data, nil
}

// MimeFromPath maps an image file extension to its MIME type, defaulting to
// image/jpeg for anything unrecognised.
func MimeFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ExtFromMime maps an image MIME type back to a file extension.
func ExtFromMime(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}
