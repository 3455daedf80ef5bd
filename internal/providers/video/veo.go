package video

import (
	"context"
	"fmt"
	"strings"

	"geminipocket/internal/domain"
	"geminipocket/internal/providers/genai"
)

// VEO translates video jobs to the Veo predictLongRunning API.
type VEO struct {
	client *genai.Client
}

func NewVEO(client *genai.Client) *VEO {
	return &VEO{client: client}
}

func (v *VEO) Start(ctx context.Context, req GenerateRequest) (*domain.Operation, error) {
	vr := genai.VideoRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		AspectRatio:    req.AspectRatio,
		Resolution:     req.Resolution,
	}
	if req.SourceImage != nil {
		vr.Image = &genai.Blob{MimeType: req.SourceImage.MIME, Data: req.SourceImage.Data}
	}
	name, err := v.client.StartVideo(ctx, vr)
	if err != nil {
		return nil, err
	}
	return domain.NewOperation(name)
}

// Status re-reads the operation from the provider and folds the response into
// the tri-state operation record.
func (v *VEO) Status(ctx context.Context, operationID string) (*domain.Operation, error) {
	op, err := domain.NewOperation(operationID)
	if err != nil {
		return nil, err
	}
	remote, err := v.client.GetOperation(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	if !remote.Done {
		return op, nil
	}
	return op, settle(op, remote)
}

func settle(op *domain.Operation, remote *genai.Operation) error {
	if remote.Error != nil {
		msg := strings.TrimSpace(remote.Error.Message)
		if msg == "" {
			msg = fmt.Sprintf("operation failed with code %d", remote.Error.Code)
		}
		return op.Fail(msg)
	}
	for _, sample := range remote.Samples() {
		if uri := strings.TrimSpace(sample.Video.URI); uri != "" {
			return op.Succeed(uri)
		}
		if data := strings.TrimSpace(sample.Video.BytesBase64Encoded); data != "" {
			return op.SucceedInline(data)
		}
	}
	if reasons := remote.FilteredReasons(); len(reasons) > 0 {
		return op.Fail("video blocked by safety filter: " + strings.Join(reasons, "; "))
	}
	return op.Succeed("")
}

var _ Generator = (*VEO)(nil)
