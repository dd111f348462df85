package covers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/paperpharmacy/paperpharmacy/internal/isbn"
	"github.com/paperpharmacy/paperpharmacy/internal/metrics"
	"github.com/paperpharmacy/paperpharmacy/internal/models"
)

// SyntheticSource names covers produced by Synthetic
const SyntheticSource = "synthetic"

// minImageBytes filters out the tiny placeholder images some providers serve
const minImageBytes = 1000

// Resolver finds a cover image for a book
type Resolver struct {
	HTTPClient *http.Client
	Sources    []Source
}

// NewResolver creates a resolver over the given sources, or DefaultSources when empty.
func NewResolver(sources []Source, timeout time.Duration) *Resolver {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Sources: sources,
	}
}

// Resolve returns the first reachable cover for isbn, falling back to a
// synthetic cover when the ISBN is missing or invalid or every source fails.
func (r *Resolver) Resolve(ctx context.Context, title, author, rawISBN string) models.Cover {
	cleaned, ok := isbn.Validate(rawISBN)
	if !ok {
		return r.synthetic(title, author)
	}

	it := NewIterator(cleaned, r.Sources)
	for {
		src, url, ok := it.Next()
		if !ok {
			break
		}
		if err := r.probe(ctx, url); err != nil {
			slog.Debug("Cover source failed", "source", src.Name, "isbn", cleaned, "error", err)
			continue
		}
		metrics.RecordCoverSource(src.Name)
		return models.Cover{URL: url, Source: src.Name}
	}

	slog.Debug("All cover sources exhausted", "isbn", cleaned)
	return r.synthetic(title, author)
}

func (r *Resolver) synthetic(title, author string) models.Cover {
	metrics.RecordCoverSource(SyntheticSource)
	s := Synthetic(title, author)
	return models.Cover{Source: SyntheticSource, Synthetic: &s}
}

// probe checks that url serves an image, using HEAD and falling back to GET
// for servers that reject HEAD.
func (r *Resolver) probe(ctx context.Context, url string) error {
	resp, err := r.do(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp, err = r.do(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cover source returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("cover source returned content type %q", ct)
	}
	if resp.ContentLength >= 0 && resp.ContentLength < minImageBytes {
		return fmt.Errorf("cover image too small (likely placeholder), size: %d bytes", resp.ContentLength)
	}
	return nil
}

func (r *Resolver) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover: %w", err)
	}
	resp.Body.Close()
	return resp, nil
}
