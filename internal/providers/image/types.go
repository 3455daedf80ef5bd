package image

import (
	"context"
	"errors"
)

// ErrNoImage is returned when the provider answered without any image part.
var ErrNoImage = errors.New("image: no image data in response")

// SourceImage is the picture an edit request conditions on.
type SourceImage struct {
	MIME string
	// Data is base64 encoded.
	Data string
}

// GenerateRequest describes a normalized request passed to the image provider.
// A non-nil SourceImage turns it into an edit.
type GenerateRequest struct {
	Prompt      string
	SourceImage *SourceImage
}

// Asset is a generated or edited image as returned by the provider.
type Asset struct {
	MIME string
	// Data is base64 encoded.
	Data string
	// Text carries any commentary the model returned next to the image.
	Text string
}

// Generator is the contract implemented by image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}
