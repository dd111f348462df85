package models

// UserInput is what the reader tells us about their state of mind
type UserInput struct {
	Mood      string `json:"mood" yaml:"mood" validate:"required"`
	Situation string `json:"situation" yaml:"situation,omitempty"`
	Genre     string `json:"genre" yaml:"genre,omitempty"`
	Purpose   string `json:"purpose" yaml:"purpose,omitempty"`
}

// Location is an approximate position reported by the client
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"longitude"`
}

// LibraryInfo represents availability of a book at a nearby library.
// Distance is only set when Available is true, Waitlist only when it is false.
type LibraryInfo struct {
	Name      string `json:"name" yaml:"name"`
	Available bool   `json:"available" yaml:"available"`
	Distance  string `json:"distance,omitempty" yaml:"distance,omitempty"`
	Waitlist  *int   `json:"waitlist,omitempty" yaml:"waitlist,omitempty"`
}

// PurchaseLinks holds search-by-title URLs for the supported retailers
type PurchaseLinks struct {
	Yes24  string `json:"yes24" yaml:"yes24"`
	Kyobo  string `json:"kyobo" yaml:"kyobo"`
	Aladin string `json:"aladin" yaml:"aladin"`
}

// Cover describes how a book cover should be rendered.
// Exactly one of URL or Synthetic is set.
type Cover struct {
	URL       string          `json:"url,omitempty" yaml:"url,omitempty"`
	Source    string          `json:"source" yaml:"source"`
	Synthetic *SyntheticCover `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// SyntheticCover is the deterministic placeholder used when no image exists
type SyntheticCover struct {
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Text    string `json:"text" yaml:"text"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// BookRecommendation is a single assembled recommendation
type BookRecommendation struct {
	Title         string        `json:"title" yaml:"title"`
	Author        string        `json:"author" yaml:"author"`
	Publisher     string        `json:"publisher" yaml:"publisher"`
	ISBN          string        `json:"isbn" yaml:"isbn"`
	Description   string        `json:"description" yaml:"description"`
	AIReason      string        `json:"aiReason" yaml:"aireason"`
	Vibe          []string      `json:"vibe" yaml:"vibe"`
	CoverImage    string        `json:"coverImage,omitempty" yaml:"coverimage,omitempty"`
	Cover         Cover         `json:"cover" yaml:"cover"`
	Libraries     []LibraryInfo `json:"libraries" yaml:"libraries"`
	PurchaseLinks PurchaseLinks `json:"purchaseLinks" yaml:"purchaselinks"`
}

// BookRecommendationWithID pairs a recommendation with its identity key
type BookRecommendationWithID struct {
	BookRecommendation `yaml:",inline"`
	ID                 string `json:"id" yaml:"id"`
}
