package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// PartKind discriminates the Part union.
type PartKind int

const (
	PartText PartKind = iota + 1
	PartImage
)

// ErrUnknownPart is returned when a response part carries neither text nor
// inline data.
var ErrUnknownPart = errors.New("genai: part has neither text nor inlineData")

// Blob is base64 payload plus its mime type.
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is a tagged union over {Text, Image}. The kind is decided by which
// field is present on the wire.
type Part struct {
	Kind  PartKind
	Text  string
	Image Blob
}

// TextPart builds a text part.
func TextPart(text string) Part { return Part{Kind: PartText, Text: text} }

// ImagePart builds an inline image part from base64 data.
func ImagePart(mimeType, data string) Part {
	return Part{Kind: PartImage, Image: Blob{MimeType: mimeType, Data: data}}
}

type wirePart struct {
	Text            *string `json:"text,omitempty"`
	InlineData      *Blob   `json:"inlineData,omitempty"`
	InlineDataSnake *Blob   `json:"inline_data,omitempty"`
}

func (p Part) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PartText:
		text := p.Text
		return json.Marshal(wirePart{Text: &text})
	case PartImage:
		blob := p.Image
		return json.Marshal(wirePart{InlineData: &blob})
	default:
		return nil, fmt.Errorf("genai: cannot marshal part of kind %d", p.Kind)
	}
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var w wirePart
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	blob := w.InlineData
	if blob == nil {
		blob = w.InlineDataSnake
	}
	switch {
	case blob != nil:
		if blob.Data == "" {
			return fmt.Errorf("genai: inlineData without data")
		}
		*p = Part{Kind: PartImage, Image: *blob}
	case w.Text != nil:
		*p = Part{Kind: PartText, Text: *w.Text}
	default:
		return ErrUnknownPart
	}
	return nil
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type generateContentRequest struct {
	Contents []Content `json:"contents"`
}

// FirstImage returns the first inline image across all candidates.
func (r *GenerateContentResponse) FirstImage() (Blob, bool) {
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Kind == PartImage {
				return part.Image, true
			}
		}
	}
	return Blob{}, false
}

// Texts collects the text parts across all candidates.
func (r *GenerateContentResponse) Texts() []string {
	var out []string
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Kind == PartText && part.Text != "" {
				out = append(out, part.Text)
			}
		}
	}
	return out
}

// GenerateContent calls models/{imageModel}:generateContent with one user turn.
func (c *Client) GenerateContent(ctx context.Context, parts ...Part) (*GenerateContentResponse, error) {
	if len(parts) == 0 {
		return nil, errors.New("genai: at least one part is required")
	}
	payload := generateContentRequest{
		Contents: []Content{{Role: "user", Parts: parts}},
	}
	var out GenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.imageModel))
	if err := c.do(ctx, "POST", path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
