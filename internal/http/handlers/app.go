package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"geminipocket/internal/domain"
	"geminipocket/internal/infra"
	"geminipocket/internal/metrics"
	"geminipocket/internal/middleware"
	"geminipocket/internal/providers/image"
	"geminipocket/internal/providers/video"
)

// maxBodyBytes bounds request bodies; edit requests carry a base64 image.
const maxBodyBytes = 25 << 20

const invalidBodyMessage = "Invalid request body"

// App holds the relay's collaborators. Handlers hang off it as methods.
type App struct {
	Logger   infra.Logger
	Users    domain.UserRepository
	Images   image.Generator
	Videos   video.Generator
	Metrics  *metrics.Metrics
	Version  string
	validate *validator.Validate
	now      func() time.Time
}

type AppOptions struct {
	Logger  infra.Logger
	Users   domain.UserRepository
	Images  image.Generator
	Videos  video.Generator
	Metrics *metrics.Metrics
	Version string
}

func NewApp(opts AppOptions) *App {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &App{
		Logger:   opts.Logger,
		Users:    opts.Users,
		Images:   opts.Images,
		Videos:   opts.Videos,
		Metrics:  opts.Metrics,
		Version:  version,
		validate: newValidator(),
		now:      time.Now,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, errorResponse{Success: false, Error: msg})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// decode reads a JSON body into dst, trims its strings and validates it. Any
// failure is reported as one invalid-body error so that callers never reach
// the provider with a malformed request.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		a.Logger.Debug().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("decode body")
		a.error(w, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		a.error(w, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	if t, ok := dst.(trimmer); ok {
		t.trim()
	}
	if err := a.validate.Struct(dst); err != nil {
		a.Logger.Debug().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("validate body")
		a.error(w, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	return true
}

type trimmer interface {
	trim()
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
