// Package session holds the reader-facing application state and the
// transitions between its snapshots. Every transition takes a State value and
// returns a new one; nothing is mutated in place.
package session

import (
	"errors"
	"strings"

	"github.com/paperpharmacy/paperpharmacy/internal/history"
	"github.com/paperpharmacy/paperpharmacy/internal/models"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
)

// Step mirrors the three stages shown in the form
type Step int

const (
	StepInput Step = iota
	StepRecommending
	StepDone
)

// DefaultRegion is preselected for new sessions
const DefaultRegion = "서울"

// Messages shown to the reader
const (
	MoodRequiredMessage = "현재 기분을 선택해주세요."
	UnknownErrorMessage = "알 수 없는 오류가 발생했습니다."
)

var (
	// ErrBusy is returned when a batch is already in flight
	ErrBusy = errors.New("a recommendation request is already in progress")
	// ErrMoodRequired is returned when submitting without a mood
	ErrMoodRequired = errors.New(MoodRequiredMessage)
)

// State is a snapshot of one reader's session
type State struct {
	ID              string                            `json:"id"`
	Input           models.UserInput                  `json:"userInput"`
	Region          string                            `json:"region"`
	Nationwide      bool                              `json:"searchNationwide"`
	Location        *models.Location                  `json:"userLocation,omitempty"`
	Recommendations []models.BookRecommendationWithID `json:"recommendations"`
	History         []models.BookRecommendationWithID `json:"history"`
	Loading         bool                              `json:"isLoading"`
	Locating        bool                              `json:"isLocating"`
	Step            Step                              `json:"activeStep"`
	ShowRegenerate  bool                              `json:"showRegenerate"`
	Error           string                            `json:"error,omitempty"`
}

// New returns the initial state of a session
func New(id string) State {
	return State{
		ID:              id,
		Region:          DefaultRegion,
		Recommendations: []models.BookRecommendationWithID{},
		History:         []models.BookRecommendationWithID{},
	}
}

// WithInput replaces the form values
func (s State) WithInput(input models.UserInput, region string, nationwide bool) State {
	s.Input = input
	if region != "" {
		s.Region = region
	}
	s.Nationwide = nationwide
	return s
}

// EffectiveRegion is the region sent to the model
func (s State) EffectiveRegion() string {
	if s.Nationwide {
		return recommend.NationwideRegion
	}
	return s.Region
}

// RegionLabel is the label shown above library availability
func (s State) RegionLabel() string {
	switch {
	case s.Location != nil:
		return "내 주변"
	case s.Nationwide:
		return "전국"
	default:
		return s.Region
	}
}

// Submit starts a fresh batch
func (s State) Submit() (State, recommend.Request, error) {
	return s.start(nil)
}

// Regenerate starts a batch that excludes every title already in history
func (s State) Regenerate() (State, recommend.Request, error) {
	return s.start(history.Titles(s.History))
}

func (s State) start(exclude []string) (State, recommend.Request, error) {
	if s.Loading {
		return s, recommend.Request{}, ErrBusy
	}
	if strings.TrimSpace(s.Input.Mood) == "" {
		return s, recommend.Request{}, ErrMoodRequired
	}

	s.Loading = true
	s.Step = StepRecommending
	s.Error = ""
	s.Recommendations = []models.BookRecommendationWithID{}

	req := recommend.Request{
		Input:         s.Input,
		Region:        s.EffectiveRegion(),
		ExcludeTitles: exclude,
		Location:      s.Location,
	}
	return s, req, nil
}

// Complete records a finished batch and folds it into history
func (s State) Complete(books []models.BookRecommendation) State {
	batch := history.WithIDs(books)
	s.Recommendations = batch
	s.History = history.Merge(s.History, batch)
	s.Loading = false
	s.Step = StepDone
	s.ShowRegenerate = true
	return s
}

// Fail records a failed batch
func (s State) Fail(message string) State {
	if message == "" {
		message = UnknownErrorMessage
	}
	s.Error = message
	s.Loading = false
	s.Step = StepInput
	s.ShowRegenerate = false
	return s
}

// LocateStarted marks a geolocation request as pending
func (s State) LocateStarted() State {
	s.Locating = true
	s.Error = ""
	return s
}

// LocationResolved stores the reader's position; library suggestions switch
// from the region selector to it.
func (s State) LocationResolved(loc models.Location) State {
	s.Location = &loc
	s.Nationwide = false
	s.Locating = false
	return s
}

// LocationFailed clears the position and reports why it could not be obtained
func (s State) LocationFailed(reason LocationError) State {
	s.Location = nil
	s.Locating = false
	s.Error = reason.Message()
	return s
}
