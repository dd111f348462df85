package history

import "github.com/paperpharmacy/paperpharmacy/internal/models"

// KeySeparator joins the parts of an identity key.
const KeySeparator = "-"

// Key returns the identity key of a recommendation: title-author-isbn.
// Titles or authors containing the separator can collide.
func Key(book models.BookRecommendation) string {
	return book.Title + KeySeparator + book.Author + KeySeparator + book.ISBN
}

// WithIDs attaches identity keys to a batch of recommendations
func WithIDs(books []models.BookRecommendation) []models.BookRecommendationWithID {
	out := make([]models.BookRecommendationWithID, 0, len(books))
	for _, book := range books {
		out = append(out, models.BookRecommendationWithID{
			BookRecommendation: book,
			ID:                 Key(book),
		})
	}
	return out
}

// Merge appends every record of batch whose key is not yet present in existing.
// Order is preserved and existing is always a prefix of the result.
// Neither input slice is modified.
func Merge(existing, batch []models.BookRecommendationWithID) []models.BookRecommendationWithID {
	seen := make(map[string]struct{}, len(existing)+len(batch))
	merged := make([]models.BookRecommendationWithID, 0, len(existing)+len(batch))
	for _, book := range existing {
		seen[book.ID] = struct{}{}
		merged = append(merged, book)
	}
	for _, book := range batch {
		if _, ok := seen[book.ID]; ok {
			continue
		}
		seen[book.ID] = struct{}{}
		merged = append(merged, book)
	}
	return merged
}

// Titles returns the titles in history order, used as the exclusion list
// when regenerating.
func Titles(h []models.BookRecommendationWithID) []string {
	titles := make([]string, 0, len(h))
	for _, book := range h {
		titles = append(titles, book.Title)
	}
	return titles
}
