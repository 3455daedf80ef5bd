package genai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// VideoRequest is the provider-facing shape of a video job submission.
type VideoRequest struct {
	Prompt         string
	NegativePrompt string
	AspectRatio    string
	Resolution     string
	// Image is an optional first frame (base64) for image-to-video.
	Image *Blob
}

type predictRequest struct {
	Instances  []videoInstance  `json:"instances"`
	Parameters *videoParameters `json:"parameters,omitempty"`
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *videoImage `json:"image,omitempty"`
}

type videoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type videoParameters struct {
	NegativePrompt string `json:"negativePrompt,omitempty"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
}

// Operation is the provider's long-running operation document.
type Operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *OperationError    `json:"error,omitempty"`
	Response *OperationResponse `json:"response,omitempty"`
}

type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OperationResponse struct {
	GenerateVideoResponse *struct {
		GeneratedSamples []VideoSample `json:"generatedSamples"`
		// Set when the safety filter dropped every sample.
		RAIMediaFilteredReasons []string `json:"raiMediaFilteredReasons,omitempty"`
	} `json:"generateVideoResponse,omitempty"`
	GeneratedVideos []VideoSample `json:"generatedVideos,omitempty"`
}

type VideoSample struct {
	Video struct {
		URI                string `json:"uri,omitempty"`
		BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
		MimeType           string `json:"mimeType,omitempty"`
	} `json:"video"`
}

// Samples flattens both response shapes the provider has used.
func (o *Operation) Samples() []VideoSample {
	if o == nil || o.Response == nil {
		return nil
	}
	var out []VideoSample
	if r := o.Response.GenerateVideoResponse; r != nil {
		out = append(out, r.GeneratedSamples...)
	}
	return append(out, o.Response.GeneratedVideos...)
}

// FilteredReasons returns the safety filter reasons, if any.
func (o *Operation) FilteredReasons() []string {
	if o == nil || o.Response == nil || o.Response.GenerateVideoResponse == nil {
		return nil
	}
	return o.Response.GenerateVideoResponse.RAIMediaFilteredReasons
}

// StartVideo submits a predictLongRunning job and returns the operation name
// exactly as issued by the provider.
func (c *Client) StartVideo(ctx context.Context, req VideoRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", errors.New("genai: prompt is required")
	}
	instance := videoInstance{Prompt: req.Prompt}
	if req.Image != nil {
		instance.Image = &videoImage{BytesBase64Encoded: req.Image.Data, MimeType: req.Image.MimeType}
	}
	payload := predictRequest{Instances: []videoInstance{instance}}
	params := videoParameters{
		NegativePrompt: strings.TrimSpace(req.NegativePrompt),
		AspectRatio:    strings.TrimSpace(req.AspectRatio),
		Resolution:     strings.TrimSpace(req.Resolution),
	}
	if params != (videoParameters{}) {
		payload.Parameters = &params
	}

	var op Operation
	path := fmt.Sprintf("/models/%s:predictLongRunning", url.PathEscape(c.videoModel))
	if err := c.do(ctx, "POST", path, payload, &op); err != nil {
		return "", err
	}
	if strings.TrimSpace(op.Name) == "" {
		return "", protocolError("no operation name in submit response")
	}
	return op.Name, nil
}

// GetOperation reads the current state of an operation. It is read-only and
// safe to repeat.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	path, err := operationPath(name)
	if err != nil {
		return nil, err
	}
	var op Operation
	if err := c.do(ctx, "GET", path, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// operationPath escapes each segment so an operation id cannot reach other
// provider endpoints.
func operationPath(name string) (string, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return "", fmt.Errorf("genai: operation name is required")
	}
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("genai: invalid operation name %q", name)
		}
		segments[i] = url.PathEscape(seg)
	}
	return "/" + strings.Join(segments, "/"), nil
}
