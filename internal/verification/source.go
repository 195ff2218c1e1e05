package verification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageSource is an uploaded document: either an in-memory buffer or a URL
// pointing at durable storage. The caller owns storage lifecycle; the
// pipeline only needs bytes.
type ImageSource struct {
	Buffer []byte
	URL    string
}

func FromBuffer(b []byte) ImageSource { return ImageSource{Buffer: b} }
func FromURL(u string) ImageSource    { return ImageSource{URL: u} }

var fetchClient = &http.Client{Timeout: 20 * time.Second}

// Resolve normalizes the source into a byte buffer usable by any extraction
// strategy. Remote sources are fetched once; the result is cached on the
// source so repeated strategies do not refetch.
func (s *ImageSource) Resolve(ctx context.Context) ([]byte, error) {
	if len(s.Buffer) > 0 {
		return s.Buffer, nil
	}
	if s.URL == "" {
		return nil, fmt.Errorf("empty image source")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("image fetch returned empty body")
	}
	s.Buffer = b
	return b, nil
}
