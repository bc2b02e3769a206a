package scene

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Icon is a loaded marker image, ready to attach to a layer.
type Icon struct {
	Name        string
	ContentType string
	Data        []byte
}

// IconLoader fetches marker images over HTTP. Acquisition is the async
// phase of marker layer construction: the layer is only built once the
// icon handle resolves.
type IconLoader struct {
	client *http.Client
}

// NewIconLoader creates a loader with a bounded request timeout.
func NewIconLoader() *IconLoader {
	return &IconLoader{client: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch downloads an icon. A failure aborts only the layer that needed
// this icon; unrelated layers are unaffected.
func (l *IconLoader) Fetch(ctx context.Context, name, url string) (*Icon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building icon request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching icon %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching icon %q: unexpected status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading icon %q: %w", name, err)
	}

	return &Icon{
		Name:        name,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
