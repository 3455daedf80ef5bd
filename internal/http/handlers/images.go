package handlers

import (
	"errors"
	"net/http"
	"strings"

	"geminipocket/internal/providers/image"
)

type imageGenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,max=10000"`
}

func (i *imageGenerateRequest) trim() {
	i.Prompt = strings.TrimSpace(i.Prompt)
}

type imageEditRequest struct {
	Prompt   string `json:"prompt" validate:"required,max=10000"`
	Image    string `json:"image" validate:"required,base64"`
	MimeType string `json:"mime_type" validate:"omitempty,oneof=image/png image/jpeg image/gif image/webp"`
}

func (i *imageEditRequest) trim() {
	i.Prompt = strings.TrimSpace(i.Prompt)
	i.Image = stripDataURL(strings.TrimSpace(i.Image))
	i.MimeType = strings.ToLower(strings.TrimSpace(i.MimeType))
}

type imageResponse struct {
	Success  bool   `json:"success"`
	Image    string `json:"image"`
	MimeType string `json:"mime_type"`
}

func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req imageGenerateRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.generateImage(w, r, "generate_image", image.GenerateRequest{Prompt: req.Prompt})
}

func (a *App) ImagesEdit(w http.ResponseWriter, r *http.Request) {
	var req imageEditRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.generateImage(w, r, "edit_image", image.GenerateRequest{
		Prompt:      req.Prompt,
		SourceImage: &image.SourceImage{MIME: req.MimeType, Data: req.Image},
	})
}

func (a *App) generateImage(w http.ResponseWriter, r *http.Request, call string, req image.GenerateRequest) {
	asset, err := a.Images.Generate(r.Context(), req)
	if errors.Is(err, image.ErrNoImage) {
		a.Metrics.ProviderCall(call, "")
		a.error(w, http.StatusBadGateway, "No image data found in response")
		return
	}
	if err != nil {
		a.providerError(w, r, call, err)
		return
	}
	a.Metrics.ProviderCall(call, "")
	a.json(w, http.StatusOK, imageResponse{Success: true, Image: asset.Data, MimeType: asset.MIME})
}

// stripDataURL accepts "data:image/png;base64,...." as well as bare base64.
func stripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		return s[idx+len(";base64,"):]
	}
	return s
}
