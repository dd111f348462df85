package recommend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/paperpharmacy/paperpharmacy/internal/catalog"
	"github.com/paperpharmacy/paperpharmacy/internal/isbn"
	"github.com/paperpharmacy/paperpharmacy/internal/metrics"
	"github.com/paperpharmacy/paperpharmacy/internal/models"
	"github.com/paperpharmacy/paperpharmacy/internal/providers"
)

const (
	vibeCount    = 3
	libraryCount = 3
)

// FailureMessage is shown to the reader when a batch cannot be produced
const FailureMessage = "AI 추천을 받아오는 데 실패했어요. 잠시 후 다시 시도해주세요."

var (
	// ErrModelFailed wraps any failure of the generative model call
	ErrModelFailed = errors.New("recommendation model call failed")
	// ErrInvalidResponse is returned when the model answer does not fit the schema
	ErrInvalidResponse = errors.New("model response did not match the book schema")
)

// Request is one recommendation run
type Request struct {
	Input         models.UserInput `json:"userInput" validate:"required"`
	Region        string           `json:"region" validate:"max=100"`
	ExcludeTitles []string         `json:"excludeTitles" validate:"max=500,dive,max=300"`
	Location      *models.Location `json:"location,omitempty"`
}

func (r Request) region() string {
	if strings.TrimSpace(r.Region) == "" {
		return "서울"
	}
	return r.Region
}

// Catalog resolves a title and author to a catalog record
type Catalog interface {
	FindBest(ctx context.Context, title, author string) (catalog.Candidate, error)
}

// CoverResolver picks a cover for a book
type CoverResolver interface {
	Resolve(ctx context.Context, title, author, isbn string) models.Cover
}

// Assembler turns a reader's mood into a batch of resolved recommendations
type Assembler struct {
	provider     providers.Provider
	model        string
	temperature  float64
	modelTimeout time.Duration
	catalog      Catalog
	covers       CoverResolver
}

// Options configures an Assembler
type Options struct {
	Model        string
	Temperature  float64
	ModelTimeout time.Duration
}

// NewAssembler creates an assembler. catalog may be nil, in which case books
// without a model-supplied ISBN keep an empty one.
func NewAssembler(provider providers.Provider, cat Catalog, covers CoverResolver, opts Options) *Assembler {
	return &Assembler{
		provider:     provider,
		model:        opts.Model,
		temperature:  opts.Temperature,
		modelTimeout: opts.ModelTimeout,
		catalog:      cat,
		covers:       covers,
	}
}

type aiBook struct {
	Title       string               `json:"title"`
	Author      string               `json:"author"`
	Publisher   string               `json:"publisher"`
	ISBN        string               `json:"isbn"`
	Description string               `json:"description"`
	AIReason    string               `json:"aiReason"`
	Vibe        []string             `json:"vibe"`
	Libraries   []models.LibraryInfo `json:"libraries"`
}

// Assemble asks the model for a batch and resolves ISBNs, covers and links for
// each book. Per-book lookup failures only blank that book's ISBN; a model
// failure or a cancelled ctx fails the whole batch.
func (a *Assembler) Assemble(ctx context.Context, req Request) (books []models.BookRecommendation, err error) {
	start := time.Now()
	defer func() { metrics.RecordBatch(err, time.Since(start)) }()

	suggested, err := a.suggest(ctx, req)
	if err != nil {
		return nil, err
	}

	books = make([]models.BookRecommendation, len(suggested))
	g, gctx := errgroup.WithContext(ctx)
	for i := range suggested {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			books[i] = a.resolve(gctx, suggested[i])
			return gctx.Err()
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve recommendations: %w", err)
	}

	slog.Info("Assembled recommendations", "provider", a.provider.Name(), "books", len(books), "duration", time.Since(start))
	return books, nil
}

func (a *Assembler) suggest(ctx context.Context, req Request) ([]aiBook, error) {
	if a.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.modelTimeout)
		defer cancel()
	}

	raw, err := a.provider.Generate(ctx, providers.Config{
		Model:       a.model,
		Temperature: a.temperature,
		Prompt:      BuildPrompt(req),
		Schema:      BookSchema(),
	})
	metrics.RecordUpstream(a.provider.Name(), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelFailed, err)
	}

	books, err := parseBooks(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelFailed, err)
	}
	return books, nil
}

// parseBooks decodes the model answer. It accepts a bare array, an object
// wrapping the array under "items" or "books", and tolerates markdown fences.
func parseBooks(raw string) ([]aiBook, error) {
	data := []byte(strings.TrimSpace(raw))
	data = bytes.TrimPrefix(data, []byte("```json"))
	data = bytes.TrimPrefix(data, []byte("```"))
	data = bytes.TrimSuffix(data, []byte("```"))
	data = bytes.TrimSpace(data)

	var books []aiBook
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Items []aiBook `json:"items"`
			Books []aiBook `json:"books"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		books = wrapped.Items
		if len(books) == 0 {
			books = wrapped.Books
		}
	} else if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if len(books) < BatchSize {
		return nil, fmt.Errorf("%w: expected %d books, got %d", ErrInvalidResponse, BatchSize, len(books))
	}
	books = books[:BatchSize]

	for i, b := range books {
		if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" {
			return nil, fmt.Errorf("%w: book %d is missing a title or author", ErrInvalidResponse, i+1)
		}
	}
	return books, nil
}

func (a *Assembler) resolve(ctx context.Context, b aiBook) models.BookRecommendation {
	res := ResolveISBN(ctx, a.catalog, b.Title, b.Author, b.ISBN)
	if b.Publisher == "" {
		b.Publisher = res.Publisher
	}

	rec := models.BookRecommendation{
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		ISBN:          res.ISBN,
		Description:   b.Description,
		AIReason:      b.AIReason,
		Vibe:          limit(b.Vibe, vibeCount),
		Libraries:     normalizeLibraries(b.Libraries),
		PurchaseLinks: PurchaseLinksFor(b.Title),
	}
	if a.covers != nil {
		rec.Cover = a.covers.Resolve(ctx, b.Title, b.Author, res.ISBN)
		rec.CoverImage = rec.Cover.URL
	}
	return rec
}

// Resolution is the outcome of resolving one book's ISBN
type Resolution struct {
	ISBN      string
	Publisher string
	Outcome   string
	Candidate *catalog.Candidate
}

// ResolveISBN keeps a valid supplied ISBN, otherwise searches cat for the
// best match. Lookup failures leave the ISBN empty and are reported through
// Outcome only. cat may be nil.
func ResolveISBN(ctx context.Context, cat Catalog, title, author, rawISBN string) Resolution {
	if cleaned, ok := isbn.Validate(rawISBN); ok {
		slog.Debug("Using model ISBN", "title", title, "isbn", cleaned)
		return resolved(Resolution{ISBN: cleaned, Outcome: metrics.ISBNFromModel})
	}
	if cat == nil {
		return resolved(Resolution{Outcome: metrics.ISBNNotFound})
	}

	slog.Debug("Searching catalog for ISBN", "title", title, "author", author)
	match, err := cat.FindBest(ctx, title, author)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			slog.Warn("No catalog results", "title", title, "author", author)
			return resolved(Resolution{Outcome: metrics.ISBNNotFound})
		}
		slog.Error("Catalog lookup failed", "title", title, "error", err)
		return resolved(Resolution{Outcome: metrics.ISBNLookupFailed})
	}

	cleaned, ok := isbn.Validate(match.ISBN13)
	if !ok {
		slog.Warn("Could not find valid ISBN", "title", title, "candidate", match.ISBN13)
		return resolved(Resolution{Outcome: metrics.ISBNNotFound, Candidate: &match})
	}

	slog.Info("Found ISBN", "title", title, "isbn", cleaned)
	return resolved(Resolution{
		ISBN:      cleaned,
		Publisher: match.Publisher,
		Outcome:   metrics.ISBNFromCatalog,
		Candidate: &match,
	})
}

func resolved(r Resolution) Resolution {
	metrics.RecordISBNResolution(r.Outcome)
	return r
}

// normalizeLibraries keeps distance only for available libraries and
// waitlist only for unavailable ones.
func normalizeLibraries(libs []models.LibraryInfo) []models.LibraryInfo {
	libs = limit(libs, libraryCount)
	out := make([]models.LibraryInfo, 0, len(libs))
	for _, lib := range libs {
		if lib.Available {
			lib.Waitlist = nil
		} else {
			lib.Distance = ""
		}
		out = append(out, lib)
	}
	return out
}

func limit[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
