package handlers

import (
	"net/http"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: a.now().UnixMilli()})
}

type infoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Info describes the relay and its endpoints.
func (a *App) Info(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, infoResponse{
		Name:    "GeminiPocket API",
		Version: a.Version,
		Endpoints: map[string]string{
			"GET /":                         "API information",
			"GET /health":                   "Health check",
			"GET /openapi":                  "OpenAPI document",
			"GET /docs":                     "Interactive API documentation",
			"POST /register":                "Create an account and receive an API key",
			"POST /login":                   "Exchange credentials for the account API key",
			"POST /generate":                "Generate an image from a prompt",
			"POST /edit":                    "Edit an image with a prompt",
			"POST /generate_video":          "Start a video generation operation",
			"POST /edit_video":              "Start an image-to-video operation",
			"GET /video_status/{operation}": "Poll a video operation",
		},
	})
}
