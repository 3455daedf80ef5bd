package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geminipocket/internal/http/handlers"
	"geminipocket/internal/infra"
	"geminipocket/internal/middleware"
)

type Options struct {
	Logger          infra.Logger
	Users           middleware.UserLookup
	Gatherer        prometheus.Gatherer
	CountryLookup   middleware.CountryLookup
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger, opts.CountryLookup),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.Metrics(app.Metrics),
	)

	r.Get("/", app.Info)
	r.Get("/health", app.Health)
	r.Get("/openapi", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	limit := middleware.RateLimit(opts.RateLimitPerMin, time.Minute)

	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(opts.Users, opts.Logger), limit)
		r.Post("/generate", app.ImagesGenerate)
		r.Post("/edit", app.ImagesEdit)
		r.Post("/generate_video", app.VideosGenerate)
		r.Post("/edit_video", app.VideosEdit)
		r.Get("/video_status/*", app.VideoStatus)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Not found"}`))
	})

	return r
}
