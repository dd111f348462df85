// Package report renders recommendation batches and resolution runs as YAML.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/paperpharmacy/paperpharmacy/internal/models"
)

// RunConfig records how a resolution run was configured
type RunConfig struct {
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Concurrency int    `yaml:"concurrency"`
	Covers      bool   `yaml:"covers"`
	Timestamp   string `yaml:"timestamp"`
}

// Resolution is one resolved row
type Resolution struct {
	Identifier   string `yaml:"identifier"`
	Title        string `yaml:"title"`
	Author       string `yaml:"author,omitempty"`
	InputISBN    string `yaml:"inputisbn,omitempty"`
	ISBN         string `yaml:"isbn"`
	Outcome      string `yaml:"outcome"`
	MatchedTitle string `yaml:"matchedtitle,omitempty"`
	Publisher    string `yaml:"publisher,omitempty"`
	CoverSource  string `yaml:"coversource,omitempty"`
	CoverURL     string `yaml:"coverurl,omitempty"`
}

// Summary counts rows per outcome
type Summary struct {
	Total    int            `yaml:"total"`
	Resolved int            `yaml:"resolved"`
	Outcomes map[string]int `yaml:"outcomes"`
	Covers   map[string]int `yaml:"covers,omitempty"`
	Duration string         `yaml:"duration"`
}

// ResolutionReport is the complete output of a resolution run
type ResolutionReport struct {
	Config  RunConfig    `yaml:"config"`
	Summary Summary      `yaml:"summary"`
	Results []Resolution `yaml:"results"`
}

// Recommendations is the output of a one-shot recommendation
type Recommendations struct {
	Input  models.UserInput            `yaml:"input"`
	Region string                      `yaml:"region"`
	Books  []models.BookRecommendation `yaml:"books"`
}

// Summarize fills Summary from the results
func (r *ResolutionReport) Summarize(elapsed time.Duration) {
	s := Summary{
		Total:    len(r.Results),
		Outcomes: make(map[string]int),
		Duration: elapsed.Round(time.Millisecond).String(),
	}
	for _, res := range r.Results {
		s.Outcomes[res.Outcome]++
		if res.ISBN != "" {
			s.Resolved++
		}
		if res.CoverSource != "" {
			if s.Covers == nil {
				s.Covers = make(map[string]int)
			}
			s.Covers[res.CoverSource]++
		}
	}
	r.Summary = s
}

// Write encodes v as YAML
func Write(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// Save writes the report to dir as resolve-<timestamp>.yaml and returns the
// absolute path.
func Save(dir string, r *ResolutionReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := r.Config.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	filename := filepath.Join(dir, fmt.Sprintf("resolve-%s.yaml", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	defer file.Close()

	if err := Write(file, r); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return filename, nil
	}
	return absPath, nil
}
