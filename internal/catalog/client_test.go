package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearch(t *testing.T) {
	var gotQuery, gotMax string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ttb/api/ItemSearch.aspx" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("Query")
		gotMax = r.URL.Query().Get("MaxResults")
		if r.URL.Query().Get("ttbkey") != "key" {
			t.Errorf("Expected ttbkey to be forwarded")
		}
		_, _ = w.Write([]byte(`{"item":[
			{"title":"아몬드","author":"손원평 (지은이)","isbn":"8936434276","isbn13":"9788936434267","publisher":"창비"},
			{"title":"아몬드 (양장)","author":"손원평","isbn":"K000000001","isbn13":"","publisher":"창비"}
		]};`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	candidates, err := client.Search(context.Background(), "아몬드", "손원평")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotQuery != "아몬드 손원평" {
		t.Errorf("Expected title and author in query, got %q", gotQuery)
	}
	if gotMax != "5" {
		t.Errorf("Expected MaxResults=5, got %q", gotMax)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ISBN13 != "9788936434267" {
		t.Errorf("Expected isbn13, got %q", candidates[0].ISBN13)
	}
	if candidates[1].ISBN13 != "K000000001" {
		t.Errorf("Expected fallback to isbn field, got %q", candidates[1].ISBN13)
	}
}

func TestSearchTitleOnlyQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("Query"); q != "데미안" {
			t.Errorf("Expected bare title query, got %q", q)
		}
		_, _ = w.Write([]byte(`{"item":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	_, err := client.FindBest(context.Background(), "데미안", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: true},
		{name: "api error code", status: http.StatusOK, body: `{"errorCode":100,"errorMessage":"invalid key"}`, wantErr: true},
		{name: "bad json", status: http.StatusOK, body: `{"item":`, wantErr: true},
		{name: "js escapes", status: http.StatusOK, body: `{"item":[{"title":"It\'s fine"}]}`, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "key", time.Second)
			_, err := client.Search(context.Background(), "Title", "")
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMissingKey(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", "", time.Second)
	if _, err := client.Search(context.Background(), "Title", ""); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey, got %v", err)
	}
}

func TestLookupCover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("ItemId") == "9788936434267" && q.Get("Cover") == "Big" {
			_, _ = w.Write([]byte(`{"item":[{"cover":"https://image.aladin.co.kr/cover.jpg"}]}`))
			return
		}
		if q.Get("ItemId") == "9791111111111" {
			_, _ = w.Write([]byte(`{"errorCode":8,"errorMessage":"잘못된 ItemId"}`))
			return
		}
		_, _ = w.Write([]byte(`{"item":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)

	cover, err := client.LookupCover(context.Background(), "9788936434267")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cover != "https://image.aladin.co.kr/cover.jpg" {
		t.Errorf("Unexpected cover %q", cover)
	}

	if _, err := client.LookupCover(context.Background(), "9780000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if _, err := client.LookupCover(context.Background(), "9791111111111"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for catalog error code, got %v", err)
	}
}
