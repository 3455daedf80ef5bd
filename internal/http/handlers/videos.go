package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"geminipocket/internal/domain"
	"geminipocket/internal/middleware"
	"geminipocket/internal/providers/video"
)

type videoGenerateRequest struct {
	Prompt         string `json:"prompt" validate:"required,max=10000"`
	NegativePrompt string `json:"negative_prompt" validate:"max=10000"`
	AspectRatio    string `json:"aspect_ratio" validate:"omitempty,oneof=16:9 9:16"`
	Resolution     string `json:"resolution" validate:"omitempty,oneof=720p 1080p"`
}

func (v *videoGenerateRequest) trim() {
	v.Prompt = strings.TrimSpace(v.Prompt)
	v.NegativePrompt = strings.TrimSpace(v.NegativePrompt)
	v.AspectRatio = strings.TrimSpace(v.AspectRatio)
	v.Resolution = strings.ToLower(strings.TrimSpace(v.Resolution))
}

type videoEditRequest struct {
	videoGenerateRequest
	Image    string `json:"image" validate:"required,base64"`
	MimeType string `json:"mime_type" validate:"omitempty,oneof=image/png image/jpeg image/gif image/webp"`
}

func (v *videoEditRequest) trim() {
	v.videoGenerateRequest.trim()
	v.Image = stripDataURL(strings.TrimSpace(v.Image))
	v.MimeType = strings.ToLower(strings.TrimSpace(v.MimeType))
}

type videoOperationResponse struct {
	Success       bool   `json:"success"`
	OperationName string `json:"operation_name"`
}

type videoStatusResponse struct {
	Success  bool   `json:"success"`
	Done     bool   `json:"done"`
	VideoURI string `json:"video_uri,omitempty"`
	Video    string `json:"video,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req videoGenerateRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.startVideo(w, r, "generate_video", req.toProvider())
}

func (a *App) VideosEdit(w http.ResponseWriter, r *http.Request) {
	var req videoEditRequest
	if !a.decode(w, r, &req) {
		return
	}
	mime := req.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	pr := req.toProvider()
	pr.SourceImage = &video.SourceImage{MIME: mime, Data: req.Image}
	a.startVideo(w, r, "edit_video", pr)
}

func (v videoGenerateRequest) toProvider() video.GenerateRequest {
	return video.GenerateRequest{
		Prompt:         v.Prompt,
		NegativePrompt: v.NegativePrompt,
		AspectRatio:    v.AspectRatio,
		Resolution:     v.Resolution,
	}
}

func (a *App) startVideo(w http.ResponseWriter, r *http.Request, call string, req video.GenerateRequest) {
	op, err := a.Videos.Start(r.Context(), req)
	if err != nil {
		a.providerError(w, r, call, err)
		return
	}
	a.Metrics.ProviderCall(call, "")
	a.Metrics.OperationStarted(call)
	a.Logger.Info().
		Str("operation", op.ID).
		Str("user_id", middleware.UserIDFromContext(r.Context())).
		Msg("video operation started")
	a.json(w, http.StatusOK, videoOperationResponse{Success: true, OperationName: op.ID})
}

// VideoStatus polls the provider once. The relay keeps no record of the
// operation, so every call is a fresh read.
func (a *App) VideoStatus(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || strings.TrimSpace(name) == "" {
		a.error(w, http.StatusBadRequest, "operation name required")
		return
	}
	op, err := a.Videos.Status(r.Context(), name)
	if err != nil {
		a.providerError(w, r, "video_status", err)
		return
	}
	a.Metrics.ProviderCall("video_status", "")
	if op.Done() {
		a.Metrics.OperationSettled(string(op.State))
	}

	switch op.State {
	case domain.OperationPending:
		a.json(w, http.StatusOK, videoStatusResponse{Success: true, Done: false})
	case domain.OperationDoneSuccess:
		a.json(w, http.StatusOK, videoStatusResponse{
			Success:  true,
			Done:     true,
			VideoURI: op.ResultLocator,
			Video:    op.ResultData,
		})
	default:
		a.json(w, http.StatusOK, videoStatusResponse{Success: false, Done: true, Error: op.FailureReason})
	}
}
