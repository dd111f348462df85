package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/paperpharmacy/paperpharmacy/internal/metrics"
)

// DefaultBaseURL is the Aladin Open API host
const DefaultBaseURL = "https://www.aladin.co.kr"

// MaxSearchResults is how many candidates a title search asks for
const MaxSearchResults = 5

var (
	// ErrNotFound is returned when a lookup yields no record
	ErrNotFound = errors.New("book not found in catalog")
	// ErrMissingKey is returned when no TTB key is configured
	ErrMissingKey = errors.New("catalog TTB key not configured")
	// ErrAPI wraps error codes reported in an Aladin response body
	ErrAPI = errors.New("catalog API error")
)

// Client represents an Aladin TTB API client
type Client struct {
	BaseURL    string
	TTBKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

type aladinItem struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	ISBN13      string `json:"isbn13"`
	Publisher   string `json:"publisher"`
	Cover       string `json:"cover"`
	Description string `json:"description"`
}

type aladinResponse struct {
	ErrorCode    int          `json:"errorCode"`
	ErrorMessage string       `json:"errorMessage"`
	Items        []aladinItem `json:"item"`
}

// NewClient creates a new catalog client
func NewClient(baseURL, ttbKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		TTBKey:  ttbKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: newBreaker("aladin"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Catalog circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.SetBreakerState(name, int(to))
		},
	})
}

// Search queries the catalog by title, adding the author to the query when given.
// An empty result is not an error.
func (c *Client) Search(ctx context.Context, title, author string) ([]Candidate, error) {
	query := title
	if author != "" {
		query = title + " " + author
	}

	params := url.Values{}
	params.Set("Query", query)
	params.Set("QueryType", "Title")
	params.Set("MaxResults", fmt.Sprint(MaxSearchResults))
	params.Set("start", "1")
	params.Set("SearchTarget", "Book")

	resp, err := c.call(ctx, "/ttb/api/ItemSearch.aspx", params)
	metrics.RecordUpstream("aladin_search", err)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog for %q: %w", title, err)
	}

	candidates := make([]Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		candidates = append(candidates, item.candidate())
		if len(candidates) == MaxSearchResults {
			break
		}
	}
	return candidates, nil
}

// FindBest searches the catalog and returns the best matching candidate.
func (c *Client) FindBest(ctx context.Context, title, author string) (Candidate, error) {
	candidates, err := c.Search(ctx, title, author)
	if err != nil {
		return Candidate{}, err
	}
	best, ok := Match(title, author, candidates)
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return best, nil
}

// LookupCover fetches the large cover image URL for an ISBN-13.
func (c *Client) LookupCover(ctx context.Context, isbn13 string) (string, error) {
	params := url.Values{}
	params.Set("itemIdType", "ISBN13")
	params.Set("ItemId", isbn13)
	params.Set("Cover", "Big")

	resp, err := c.call(ctx, "/ttb/api/ItemLookUp.aspx", params)
	metrics.RecordUpstream("aladin_lookup", err)
	if errors.Is(err, ErrAPI) {
		slog.Debug("Catalog rejected cover lookup", "isbn", isbn13, "error", err)
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up cover for %s: %w", isbn13, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Cover == "" {
		return "", ErrNotFound
	}
	return resp.Items[0].Cover, nil
}

func (c *Client) call(ctx context.Context, path string, params url.Values) (*aladinResponse, error) {
	if c.TTBKey == "" {
		return nil, ErrMissingKey
	}
	params.Set("ttbkey", c.TTBKey)
	params.Set("output", "js")
	params.Set("Version", "20131101")
	endpoint := c.BaseURL + path + "?" + params.Encode()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return nil, err
	}

	var resp aladinResponse
	if err := json.Unmarshal(sanitize(body), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return nil, fmt.Errorf("%w %d: %s", ErrAPI, resp.ErrorCode, resp.ErrorMessage)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call catalog API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return body, nil
}

// sanitize fixes the two quirks of Aladin's "js" output: a trailing
// semicolon and JavaScript-only \' escapes.
func sanitize(body []byte) []byte {
	body = bytes.TrimSpace(body)
	body = bytes.TrimSuffix(body, []byte(";"))
	return bytes.ReplaceAll(body, []byte(`\'`), []byte(`'`))
}

func (i aladinItem) candidate() Candidate {
	isbn13 := i.ISBN13
	if isbn13 == "" {
		isbn13 = i.ISBN
	}
	return Candidate{
		Title:       i.Title,
		Author:      i.Author,
		ISBN13:      isbn13,
		Publisher:   i.Publisher,
		Cover:       i.Cover,
		Description: i.Description,
	}
}
