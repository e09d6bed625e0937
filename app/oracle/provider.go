package oracle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/joefazee/flashpred/models"
)

// FeedProvider fetches the raw account bytes for a feed reference. The
// engine fetches a fresh snapshot on every resolve attempt.
type FeedProvider interface {
	Fetch(ctx context.Context, feedID string) ([]byte, error)
}

// MemoryProvider is an in-process feed provider keyed by feed reference.
type MemoryProvider struct {
	mu    sync.RWMutex
	feeds map[string][]byte
}

// NewMemoryProvider creates an empty in-memory feed provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{feeds: make(map[string][]byte)}
}

// Set replaces the stored snapshot for a feed.
func (p *MemoryProvider) Set(feedID string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	p.feeds[feedID] = buf
}

// Fetch returns a copy of the stored snapshot for a feed.
func (p *MemoryProvider) Fetch(_ context.Context, feedID string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, ok := p.feeds[feedID]
	if !ok {
		return nil, fmt.Errorf("feed %q: %w", feedID, models.ErrRecordNotFound)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// maxFeedBytes bounds a fetched price account; real accounts are ~3KB.
const maxFeedBytes = 1 << 20

// HTTPProvider fetches raw price account bytes from an HTTP endpoint
// serving them at {baseURL}/{feedID}.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a feed provider backed by an HTTP endpoint.
// A nil client gets a default with a 5s timeout.
func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Fetch downloads the current snapshot for a feed.
func (p *HTTPProvider) Fetch(ctx context.Context, feedID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+feedID, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %q: %w", feedID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("feed %q: %w", feedID, models.ErrRecordNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %q: unexpected status %d", feedID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed %q: %w", feedID, err)
	}
	return data, nil
}
