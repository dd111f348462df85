package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/paperpharmacy/paperpharmacy/internal/models"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
)

func book(title, author, isbn string) models.BookRecommendation {
	return models.BookRecommendation{Title: title, Author: author, ISBN: isbn}
}

func TestNew(t *testing.T) {
	s := New("abc")
	if s.ID != "abc" {
		t.Errorf("Expected ID abc, got %q", s.ID)
	}
	if s.Region != DefaultRegion {
		t.Errorf("Expected region %q, got %q", DefaultRegion, s.Region)
	}
	if s.Step != StepInput || s.Loading || s.ShowRegenerate {
		t.Errorf("Expected idle input step, got %+v", s)
	}
	if s.History == nil || s.Recommendations == nil {
		t.Error("Expected empty, non-nil slices")
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		wantErr    error
		wantRegion string
	}{
		{
			name:    "mood missing",
			state:   New("s"),
			wantErr: ErrMoodRequired,
		},
		{
			name:    "mood whitespace only",
			state:   New("s").WithInput(models.UserInput{Mood: " \t\n "}, "", false),
			wantErr: ErrMoodRequired,
		},
		{
			name:       "region",
			state:      New("s").WithInput(models.UserInput{Mood: "우울함"}, "부산", false),
			wantRegion: "부산",
		},
		{
			name:       "nationwide",
			state:      New("s").WithInput(models.UserInput{Mood: "우울함"}, "부산", true),
			wantRegion: recommend.NationwideRegion,
		},
		{
			name: "already loading",
			state: func() State {
				s := New("s").WithInput(models.UserInput{Mood: "화남"}, "", false)
				s.Loading = true
				return s
			}(),
			wantErr: ErrBusy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, req, err := tt.state.Submit()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if next.Loading != tt.state.Loading || next.Step != tt.state.Step {
					t.Errorf("Expected state unchanged on error, got %+v", next)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !next.Loading || next.Step != StepRecommending {
				t.Errorf("Expected loading recommending state, got %+v", next)
			}
			if tt.state.Loading {
				t.Error("Expected prior snapshot to be untouched")
			}
			if req.Region != tt.wantRegion {
				t.Errorf("Expected region %q, got %q", tt.wantRegion, req.Region)
			}
			if len(req.ExcludeTitles) != 0 {
				t.Errorf("Expected no exclusions on submit, got %v", req.ExcludeTitles)
			}
		})
	}
}

func TestCompleteAndRegenerate(t *testing.T) {
	s := New("s").WithInput(models.UserInput{Mood: "지루함"}, "", false)

	s, _, err := s.Submit()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s = s.Complete([]models.BookRecommendation{
		book("A", "x", "1"),
		book("B", "y", "2"),
		book("C", "z", "3"),
	})

	if s.Loading || s.Step != StepDone || !s.ShowRegenerate {
		t.Errorf("Expected completed state, got %+v", s)
	}
	if len(s.Recommendations) != 3 || len(s.History) != 3 {
		t.Fatalf("Expected 3 recommendations and 3 history entries, got %d and %d", len(s.Recommendations), len(s.History))
	}
	if s.Recommendations[0].ID != "A-x-1" {
		t.Errorf("Expected id A-x-1, got %q", s.Recommendations[0].ID)
	}

	s, req, err := s.Regenerate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Join(req.ExcludeTitles, ",") != "A,B,C" {
		t.Errorf("Expected exclusions A,B,C, got %v", req.ExcludeTitles)
	}
	if len(s.Recommendations) != 0 {
		t.Errorf("Expected recommendations cleared while loading, got %d", len(s.Recommendations))
	}

	s = s.Complete([]models.BookRecommendation{
		book("A", "x", "1"),
		book("D", "w", "4"),
		book("D", "w", "4"),
	})
	if len(s.History) != 4 {
		t.Errorf("Expected history of 4, got %d", len(s.History))
	}
	if s.History[3].Title != "D" {
		t.Errorf("Expected D appended last, got %q", s.History[3].Title)
	}
}

func TestFail(t *testing.T) {
	s := New("s").WithInput(models.UserInput{Mood: "불안함"}, "", false)
	s, _, _ = s.Submit()

	failed := s.Fail(recommend.FailureMessage)
	if failed.Loading || failed.Step != StepInput || failed.ShowRegenerate {
		t.Errorf("Expected reset input state, got %+v", failed)
	}
	if failed.Error != recommend.FailureMessage {
		t.Errorf("Expected failure message, got %q", failed.Error)
	}

	if got := s.Fail("").Error; got != UnknownErrorMessage {
		t.Errorf("Expected %q, got %q", UnknownErrorMessage, got)
	}

	// a failed regenerate can be retried
	if _, _, err := failed.Regenerate(); err != nil {
		t.Errorf("Expected retry to succeed, got %v", err)
	}
}

func TestLocation(t *testing.T) {
	s := New("s").WithInput(models.UserInput{Mood: "편안함"}, "대구", true).LocateStarted()
	if !s.Locating {
		t.Error("Expected locating flag")
	}

	loc := models.Location{Latitude: 35.87, Longitude: 128.6}
	resolved := s.LocationResolved(loc)
	if resolved.Location == nil || *resolved.Location != loc {
		t.Fatalf("Expected location %v, got %v", loc, resolved.Location)
	}
	if resolved.Nationwide || resolved.Locating {
		t.Errorf("Expected nationwide and locating cleared, got %+v", resolved)
	}
	if resolved.RegionLabel() != "내 주변" {
		t.Errorf("Expected nearby label, got %q", resolved.RegionLabel())
	}

	resolved = resolved.WithInput(models.UserInput{Mood: "편안함"}, "", false)
	_, req, err := resolved.Submit()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Location == nil || req.Location.Latitude != 35.87 {
		t.Errorf("Expected location in request, got %v", req.Location)
	}

	failed := resolved.LocationFailed(LocationTimeout)
	if failed.Location != nil {
		t.Error("Expected location cleared")
	}
	if failed.RegionLabel() != "대구" {
		t.Errorf("Expected region selector back in use, got %q", failed.RegionLabel())
	}
}

func TestLocationErrorMessage(t *testing.T) {
	tests := []struct {
		reason LocationError
		want   string
	}{
		{LocationPermissionDenied, "권한을 허용해주세요"},
		{LocationPositionUnavailable, "현재 위치를 확인할 수 없어요"},
		{LocationTimeout, "요청 시간이 초과되었어요"},
		{LocationUnsupported, "지원하지 않아요"},
		{LocationError("other"), UnknownErrorMessage},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			if got := tt.reason.Message(); !strings.Contains(got, tt.want) {
				t.Errorf("Expected message containing %q, got %q", tt.want, got)
			}
		})
	}
}
