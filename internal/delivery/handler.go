package delivery

import (
	"context"
	"fmt"
	"net/http"

	"cpi-console/internal/backend"

	"github.com/rs/zerolog/log"
)

const fallbackName = "download.bin"

// Receipt describes a completed delivery.
type Receipt struct {
	Name        string
	Location    string
	Size        int
	ContentType string
}

// Handler hands downloaded payloads to a sink.
type Handler struct {
	Sink Sink
}

// NewHandler returns a handler saving into sink.
func NewHandler(sink Sink) *Handler {
	return &Handler{Sink: sink}
}

// Deliver stores blob under name. The client-derived name wins; the name the
// server suggested is used only when name is empty.
func (h *Handler) Deliver(ctx context.Context, blob *backend.Blob, name string) (Receipt, error) {
	if blob == nil {
		return Receipt{}, fmt.Errorf("nothing to deliver")
	}

	name = Sanitize(name)
	if name == "" {
		name = Sanitize(blob.SuggestedName)
	}
	if name == "" {
		name = fallbackName
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(blob.Data)
	}

	location, err := h.Sink.Put(ctx, name, contentType, blob.Data)
	if err != nil {
		return Receipt{}, fmt.Errorf("deliver %s: %w", name, err)
	}

	log.Info().Str("name", name).Str("location", location).Int("bytes", len(blob.Data)).Msg("File delivered")
	return Receipt{Name: name, Location: location, Size: len(blob.Data), ContentType: contentType}, nil
}
