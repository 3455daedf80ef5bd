package image

import (
	"context"
	"errors"
	"strings"

	"geminipocket/internal/providers/genai"
)

type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("image: prompt is required")
	}
	parts := []genai.Part{genai.TextPart(prompt)}
	if src := req.SourceImage; src != nil {
		mime := src.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.ImagePart(mime, src.Data))
	}

	resp, err := g.client.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, err
	}
	blob, ok := resp.FirstImage()
	if !ok {
		return nil, ErrNoImage
	}
	mime := blob.MimeType
	if mime == "" {
		mime = "image/png"
	}
	return &Asset{
		MIME: mime,
		Data: blob.Data,
		Text: strings.Join(resp.Texts(), "\n"),
	}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
