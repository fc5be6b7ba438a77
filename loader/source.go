package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Source yields the raw bytes of one JSON document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// SourceFor picks an HTTP source for http(s) URLs and a file source otherwise.
func SourceFor(location string) Source {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return &HTTPSource{URL: location}
	}
	return FileSource{Path: location}
}

type FileSource struct {
	Path string
}

func (f FileSource) Fetch(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}

func (f FileSource) String() string { return f.Path }

const maxDocumentBytes = 5 << 20

// HTTPSource GETs URL, bypassing caches. Any status other than 200 fails.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (h *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", h.URL, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}

func (h *HTTPSource) String() string { return h.URL }
