package video

import (
	"context"

	"geminipocket/internal/domain"
)

// SourceImage is the optional first frame for image-to-video jobs.
type SourceImage struct {
	MIME string
	// Data is base64 encoded.
	Data string
}

// GenerateRequest describes a normalized video job passed to the provider.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	AspectRatio    string
	Resolution     string
	SourceImage    *SourceImage
}

// Generator submits long-running video jobs and reports their state. It keeps
// no record of operations between calls.
type Generator interface {
	Start(ctx context.Context, req GenerateRequest) (*domain.Operation, error)
	Status(ctx context.Context, operationID string) (*domain.Operation, error)
}
