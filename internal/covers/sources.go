package covers

import "strings"

// Source is an external cover image provider addressed by ISBN
type Source struct {
	Name string `yaml:"name" validate:"required"`
	// URL holds an {isbn} placeholder
	URL string `yaml:"url" validate:"required,contains={isbn}"`
}

// DefaultSources are tried in order for every valid ISBN.
var DefaultSources = []Source{
	{Name: "kyobo", URL: "https://contents.kyobobook.co.kr/sih/fit-in/400x0/pdt/{isbn}.jpg"},
	{Name: "openlibrary", URL: "https://covers.openlibrary.org/b/isbn/{isbn}-L.jpg?default=false"},
}

// For returns the URL of the source for isbn
func (s Source) For(isbn string) string {
	return strings.ReplaceAll(s.URL, "{isbn}", isbn)
}

// Iterator walks an ordered list of sources for one ISBN.
// The zero value is exhausted.
type Iterator struct {
	isbn    string
	sources []Source
	index   int
}

// NewIterator returns an iterator positioned before the first source.
func NewIterator(isbn string, sources []Source) *Iterator {
	return &Iterator{isbn: isbn, sources: sources}
}

// Next returns the next source and its URL, or false once exhausted.
func (it *Iterator) Next() (Source, string, bool) {
	if it.index >= len(it.sources) {
		return Source{}, "", false
	}
	src := it.sources[it.index]
	it.index++
	return src, src.For(it.isbn), true
}

// Exhausted reports whether every source has been handed out.
func (it *Iterator) Exhausted() bool {
	return it.index >= len(it.sources)
}
