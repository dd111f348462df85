// Package resolve runs ISBN and cover resolution over a title list.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/paperpharmacy/paperpharmacy/internal/dataset"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
	"github.com/paperpharmacy/paperpharmacy/internal/report"
)

// DefaultConcurrency bounds in-flight catalog requests
const DefaultConcurrency = 4

// Runner resolves records against a catalog and, optionally, cover sources
type Runner struct {
	Catalog     recommend.Catalog
	Covers      recommend.CoverResolver
	Concurrency int
}

// Run resolves every record and returns results in input order
func (r *Runner) Run(ctx context.Context, records []dataset.TitleRecord) []report.Resolution {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	slog.Info("Processing records", "records", len(records), "concurrency", concurrency)

	results := make([]report.Resolution, len(records))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, record := range records {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Debug("Resolving record", "id", record.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(records)))
			results[i] = r.resolve(ctx, record)
		}()
	}
	wg.Wait()

	return results
}

func (r *Runner) resolve(ctx context.Context, record dataset.TitleRecord) report.Resolution {
	res := recommend.ResolveISBN(ctx, r.Catalog, record.Title, record.Author, record.ISBN)

	out := report.Resolution{
		Identifier: record.ID,
		Title:      record.Title,
		Author:     record.Author,
		InputISBN:  record.ISBN,
		ISBN:       res.ISBN,
		Outcome:    res.Outcome,
		Publisher:  res.Publisher,
	}
	if res.Candidate != nil {
		out.MatchedTitle = res.Candidate.Title
	}

	if r.Covers != nil {
		cover := r.Covers.Resolve(ctx, record.Title, record.Author, res.ISBN)
		out.CoverSource = cover.Source
		out.CoverURL = cover.URL
	}
	return out
}
