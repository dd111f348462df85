package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestHash(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{input: "", expected: 0},
		{input: "a", expected: 97},
		{input: "ab", expected: 97*31 + 98},
		// wraps past int32 and is reported as an absolute value
		{input: "hello world", expected: 1794106052},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Hash(tt.input); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestHashNonNegative(t *testing.T) {
	for _, s := range []string{"채식주의자한강", "소년이 온다", "The Great GatsbyF. Scott Fitzgerald", "zzzzzzzzzzzzzzzz"} {
		if h := Hash(s); h < 0 {
			t.Errorf("Expected non-negative hash for %q, got %d", s, h)
		}
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	first := Synthetic("아몬드", "손원평")
	second := Synthetic("아몬드", "손원평")
	if first != second {
		t.Errorf("Expected identical covers, got %+v and %+v", first, second)
	}

	titles := []string{"데미안", "어린 왕자", "미움받을 용기", "82년생 김지영", "나미야 잡화점의 기적", "불편한 편의점", "달러구트 꿈 백화점", "코스모스"}
	distinct := map[string]bool{}
	for _, title := range titles {
		c := Synthetic(title, "작가")
		distinct[c.From+c.Pattern] = true
	}
	if len(distinct) < 2 {
		t.Errorf("Expected different titles to produce different selections, got %d distinct", len(distinct))
	}
}

func TestIterator(t *testing.T) {
	it := NewIterator("9788936434267", DefaultSources)

	src, url, ok := it.Next()
	if !ok || src.Name != "kyobo" {
		t.Fatalf("Expected kyobo first, got %q (ok=%v)", src.Name, ok)
	}
	if !strings.Contains(url, "/pdt/9788936434267.jpg") {
		t.Errorf("Unexpected kyobo URL %q", url)
	}

	src, url, ok = it.Next()
	if !ok || src.Name != "openlibrary" {
		t.Fatalf("Expected openlibrary second, got %q (ok=%v)", src.Name, ok)
	}
	if url != "https://covers.openlibrary.org/b/isbn/9788936434267-L.jpg?default=false" {
		t.Errorf("Unexpected openlibrary URL %q", url)
	}

	if _, _, ok := it.Next(); ok {
		t.Error("Expected iterator to be exhausted")
	}
	if !it.Exhausted() {
		t.Error("Expected Exhausted to report true")
	}

	var zero Iterator
	if !zero.Exhausted() {
		t.Error("Expected zero iterator to be exhausted")
	}
}

func TestResolve(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/missing/"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasPrefix(r.URL.Path, "/tiny/"):
			w.Header().Set("Content-Type", "image/jpeg")
			w.Header().Set("Content-Length", "43")
		case strings.HasPrefix(r.URL.Path, "/html/"):
			w.Header().Set("Content-Type", "text/html")
		case strings.HasPrefix(r.URL.Path, "/nohead/"):
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "image/png")
		default:
			w.Header().Set("Content-Type", "image/jpeg")
			w.Header().Set("Content-Length", "20480")
		}
	}))
	defer server.Close()

	source := func(name, prefix string) Source {
		return Source{Name: name, URL: server.URL + prefix + "{isbn}.jpg"}
	}

	tests := []struct {
		name       string
		sources    []Source
		isbn       string
		wantSource string
		wantCalls  int32
	}{
		{
			name:       "first source wins",
			sources:    []Source{source("first", "/ok/"), source("second", "/ok/")},
			isbn:       "9788936434267",
			wantSource: "first",
			wantCalls:  1,
		},
		{
			name:       "falls through to second",
			sources:    []Source{source("first", "/missing/"), source("second", "/ok/")},
			isbn:       "978-89-364-3426-7",
			wantSource: "second",
			wantCalls:  2,
		},
		{
			name:       "placeholder and html skipped",
			sources:    []Source{source("tiny", "/tiny/"), source("html", "/html/"), source("real", "/ok/")},
			isbn:       "9788936434267",
			wantSource: "real",
			wantCalls:  3,
		},
		{
			name:       "get fallback when head rejected",
			sources:    []Source{source("nohead", "/nohead/")},
			isbn:       "9788936434267",
			wantSource: "nohead",
			wantCalls:  2,
		},
		{
			name:       "exhausted falls back to synthetic",
			sources:    []Source{source("first", "/missing/"), source("second", "/missing/")},
			isbn:       "9788936434267",
			wantSource: SyntheticSource,
			wantCalls:  2,
		},
		{
			name:       "missing isbn skips network",
			sources:    []Source{source("first", "/ok/")},
			isbn:       "",
			wantSource: SyntheticSource,
			wantCalls:  0,
		},
		{
			name:       "invalid isbn skips network",
			sources:    []Source{source("first", "/ok/")},
			isbn:       "12345",
			wantSource: SyntheticSource,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls.Store(0)
			resolver := NewResolver(tt.sources, time.Second)
			cover := resolver.Resolve(context.Background(), "아몬드", "손원평", tt.isbn)

			if cover.Source != tt.wantSource {
				t.Errorf("Expected source %q, got %q", tt.wantSource, cover.Source)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("Expected %d upstream calls, got %d", tt.wantCalls, got)
			}
			if tt.wantSource == SyntheticSource {
				if cover.Synthetic == nil || cover.URL != "" {
					t.Errorf("Expected synthetic cover only, got %+v", cover)
				}
			} else if !strings.Contains(cover.URL, "9788936434267") {
				t.Errorf("Expected URL with cleaned ISBN, got %q", cover.URL)
			}
		})
	}
}
