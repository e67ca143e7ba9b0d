package orders

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxDocumentBytes caps the size of a remote order document.
const maxDocumentBytes = 64 << 20

// HTTPSource fetches the order document from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// HTTPClient returns a traced HTTP client for fetching order documents.
func HTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Name identifies the source in cache keys and logs.
func (s HTTPSource) Name() string {
	return "http:" + s.URL
}

// Load downloads, decodes and validates the document.
func (s HTTPSource) Load(ctx context.Context) ([]Order, error) {
	if strings.TrimSpace(s.URL) == "" {
		return nil, fmt.Errorf("orders: url is required")
	}
	client := s.Client
	if client == nil {
		client = HTTPClient(0)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("orders: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orders: fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orders: fetch %s: unexpected status %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("orders: read %s: %w", s.URL, err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrInvalidInput, maxDocumentBytes)
	}
	return Decode(data)
}
