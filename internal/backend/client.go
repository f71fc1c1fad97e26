package backend

import (
	"context"
	"io"
	"net/http"

	"cpi-console/internal/period"
)

// Client is the interface for interacting with the statistics service.
type Client interface {
	// Statistics runs an analysis. A nil params slice issues the legacy
	// request without a query string.
	Statistics(ctx context.Context, params period.Params) (*StatisticsResponse, error)
	PressRelease(ctx context.Context, params period.Params) (*PressReleaseResponse, error)
	DownloadData(ctx context.Context, params period.Params) (*Blob, error)
	LegacyPressRelease(ctx context.Context) (*Blob, error)
	ConvertPDF(ctx context.Context, name string, r io.Reader) (*Blob, error)
	Upload(ctx context.Context, name string, r io.Reader) (*UploadResponse, error)
	Health(ctx context.Context) error
}

// Config holds the connection settings for the statistics service.
type Config struct {
	// BaseURL serves the statistics, press release, data and conversion
	// endpoints.
	BaseURL string
	// UploadURL serves the spreadsheet upload endpoint. Falls back to BaseURL.
	UploadURL string
	UserAgent string

	// HTTPClient overrides the transport. Its Timeout is left untouched; the
	// default client has none.
	HTTPClient *http.Client
}

// NewClient creates a new client based on the provided configuration.
func NewClient(cfg Config) Client {
	return newHTTPClient(cfg)
}
