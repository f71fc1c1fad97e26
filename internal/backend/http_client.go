package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"cpi-console/internal/period"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "cpi-console"

type httpClient struct {
	cfg        Config
	httpClient *http.Client
}

func newHTTPClient(cfg Config) *httpClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.UploadURL = strings.TrimRight(cfg.UploadURL, "/")
	if cfg.UploadURL == "" {
		cfg.UploadURL = cfg.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &httpClient{cfg: cfg, httpClient: hc}
}

func endpoint(base, path string, params period.Params) string {
	if len(params) == 0 {
		return base + path
	}
	return base + path + "?" + params.Encode()
}

func (c *httpClient) Statistics(ctx context.Context, params period.Params) (*StatisticsResponse, error) {
	var out StatisticsResponse
	if err := c.getJSON(ctx, "statistics", endpoint(c.cfg.BaseURL, "/api/statistics", params), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) PressRelease(ctx context.Context, params period.Params) (*PressReleaseResponse, error) {
	var out PressReleaseResponse
	if err := c.getJSON(ctx, "press release", endpoint(c.cfg.BaseURL, "/api/press-release", params), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) DownloadData(ctx context.Context, params period.Params) (*Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint(c.cfg.BaseURL, "/api/download-data", params), nil)
	if err != nil {
		return nil, &TransportError{Op: "download data", Err: err}
	}
	return c.fetchBlob("download data", req)
}

func (c *httpClient) LegacyPressRelease(ctx context.Context) (*Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.cfg.BaseURL+"/api/press-release", nil)
	if err != nil {
		return nil, &TransportError{Op: "legacy press release", Err: err}
	}
	return c.fetchBlob("legacy press release", req)
}

func (c *httpClient) ConvertPDF(ctx context.Context, name string, r io.Reader) (*Blob, error) {
	req, err := c.newMultipartRequest(ctx, c.cfg.BaseURL+"/api/pdf-to-docx", name, r)
	if err != nil {
		return nil, &TransportError{Op: "convert", Err: err}
	}
	return c.fetchBlob("convert", req)
}

func (c *httpClient) Upload(ctx context.Context, name string, r io.Reader) (*UploadResponse, error) {
	req, err := c.newMultipartRequest(ctx, c.cfg.UploadURL+"/api/upload", name, r)
	if err != nil {
		return nil, &TransportError{Op: "upload", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, body, err := c.do("upload", req)
	if err != nil {
		return nil, err
	}
	var out UploadResponse
	if err := decodeEnvelope(body, &out); err != nil {
		return nil, &TransportError{Op: "upload", Err: fmt.Errorf("malformed response (status %d): %w", resp.StatusCode, err)}
	}
	return &out, nil
}

func (c *httpClient) Health(ctx context.Context) error {
	var out HealthResponse
	if err := c.getJSON(ctx, "health", c.cfg.BaseURL+"/api/health", &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return fmt.Errorf("service reported status %q", out.Status)
	}
	return nil
}

func (c *httpClient) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	return req, nil
}

func (c *httpClient) newMultipartRequest(ctx context.Context, url, name string, r io.Reader) (*http.Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// do sends req and reads the whole body. Any failure before a complete body
// is available is a TransportError.
func (c *httpClient) do(op string, req *http.Request) (*http.Response, []byte, error) {
	id := req.Header.Get("X-Request-ID")
	start := time.Now()

	log.Debug().Str("op", op).Str("request_id", id).Str("method", req.Method).Str("url", req.URL.String()).Msg("Calling statistics service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("op", op).Str("request_id", id).Msg("Statistics service unreachable")
		return nil, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	log.Debug().
		Str("op", op).
		Str("request_id", id).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Statistics service responded")
	return resp, body, nil
}

// getJSON fetches a JSON envelope. The service reports application errors
// inside the envelope with a 5xx status, so the body is decoded regardless
// of the status code.
func (c *httpClient) getJSON(ctx context.Context, op, url string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, body, err := c.do(op, req)
	if err != nil {
		return err
	}
	if err := decodeEnvelope(body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("malformed response (status %d): %w", resp.StatusCode, err)}
	}
	return nil
}

func (c *httpClient) fetchBlob(op string, req *http.Request) (*Blob, error) {
	resp, body, err := c.do(op, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er ErrorResponse
		if err := decodeEnvelope(body, &er); err != nil {
			log.Debug().Err(err).Str("op", op).Int("status", resp.StatusCode).Msg("Error body is not a JSON envelope")
		}
		return nil, &APIError{Op: op, Status: resp.StatusCode, Message: er.Error}
	}

	return &Blob{
		Data:          body,
		ContentType:   resp.Header.Get("Content-Type"),
		SuggestedName: filenameFromDisposition(resp.Header.Get("Content-Disposition")),
	}, nil
}

func decodeEnvelope(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("expected a JSON object, got %q", snippet(trimmed))
	}
	return json.Unmarshal(trimmed, out)
}

func snippet(b []byte) string {
	const max = 64
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// filenameFromDisposition extracts the file name from a Content-Disposition
// header. RFC 5987 encoded names (filename*=UTF-8''...) are decoded.
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
