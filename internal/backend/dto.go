package backend

import (
	"encoding/json"

	"cpi-console/internal/statistic"
)

// StatisticsResponse is the envelope of GET /api/statistics.
type StatisticsResponse struct {
	Success    bool          `json:"success"`
	Statistics statistic.Set `json:"statistics,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// PressReleaseResponse is the envelope of GET /api/press-release.
type PressReleaseResponse struct {
	Success bool   `json:"success"`
	HTML    string `json:"html,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UploadResponse is the envelope of POST /api/upload.
type UploadResponse struct {
	Success      bool                `json:"success"`
	Insights     []statistic.Insight `json:"insights,omitempty"`
	PressRelease string              `json:"press_release,omitempty"`
	DataPreview  json.RawMessage     `json:"data_preview,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// ErrorResponse is the body binary endpoints send on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Blob is a binary payload returned by a download endpoint.
type Blob struct {
	Data        []byte
	ContentType string
	// SuggestedName is taken from Content-Disposition when the server sends
	// one.
	SuggestedName string
}
