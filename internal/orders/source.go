package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Source loads the complete order dataset.
type Source interface {
	Load(ctx context.Context) ([]Order, error)
	Name() string
}

// FileSource reads orders from a JSON document holding an array of orders.
type FileSource struct {
	Path string
}

// Name identifies the source in cache keys and logs.
func (s FileSource) Name() string {
	return "file:" + s.Path
}

// Load reads, decodes and validates the file.
func (s FileSource) Load(ctx context.Context) ([]Order, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("orders: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("orders: read %s: %w", s.Path, err)
	}
	return Decode(data)
}

// Decode parses a JSON array of orders and validates every record.
func Decode(data []byte) ([]Order, error) {
	var records []orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidInput, err)
	}
	if err := checkRecords(records); err != nil {
		return nil, err
	}
	list := make([]Order, 0, len(records))
	for _, r := range records {
		list = append(list, r.toOrder())
	}
	if err := Validate(list); err != nil {
		return nil, err
	}
	return list, nil
}

// OnceSource loads the wrapped source once per process and serves the cached dataset afterwards.
// A failed load is not cached.
type OnceSource struct {
	src    Source
	mu     sync.Mutex
	loaded bool
	orders []Order
}

// Once wraps src so that it is only loaded once.
func Once(src Source) *OnceSource {
	return &OnceSource{src: src}
}

// Name returns the wrapped source name.
func (s *OnceSource) Name() string {
	return s.src.Name()
}

// Load returns the cached dataset, loading it on first use.
func (s *OnceSource) Load(ctx context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.orders, nil
	}
	list, err := s.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.orders = list
	s.loaded = true
	return list, nil
}
