package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperpharmacy/paperpharmacy/internal/models"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
	"github.com/paperpharmacy/paperpharmacy/internal/report"
	"github.com/paperpharmacy/paperpharmacy/internal/validation"
)

func newRecommendCmd() *cobra.Command {
	var (
		input      models.UserInput
		region     string
		nationwide bool
		exclude    []string
		lat, lng   float64
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print one batch of recommendations as YAML",
		Example: `  paperpharmacy recommend --mood 우울함 --genre 소설
  paperpharmacy recommend --mood 지루함 --nationwide --exclude 아몬드`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			req := recommend.Request{
				Input:         input,
				Region:        region,
				ExcludeTitles: exclude,
			}
			if nationwide {
				req.Region = recommend.NationwideRegion
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				req.Location = &models.Location{Latitude: lat, Longitude: lng}
			}
			if strings.TrimSpace(req.Input.Mood) == "" {
				return fmt.Errorf("--mood is required")
			}
			if err := validation.Struct(req); err != nil {
				return err
			}

			assembler, _, err := recommend.New(cfg)
			if err != nil {
				return err
			}

			books, err := assembler.Assemble(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s: %w", recommend.FailureMessage, err)
			}

			return report.Write(os.Stdout, report.Recommendations{
				Input:  req.Input,
				Region: req.Region,
				Books:  books,
			})
		},
	}

	cmd.Flags().StringVar(&input.Mood, "mood", "", "Current mood (행복함, 우울함, 지루함, 화남, 편안함, 생각이 많음, 불안함)")
	cmd.Flags().StringVar(&input.Situation, "situation", "", "Current situation")
	cmd.Flags().StringVar(&input.Genre, "genre", "", "Preferred genre")
	cmd.Flags().StringVar(&input.Purpose, "purpose", "", "Reason for reading")
	cmd.Flags().StringVar(&region, "region", "서울", "Region for library suggestions")
	cmd.Flags().BoolVar(&nationwide, "nationwide", false, "Suggest libraries nationwide")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Titles to exclude")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude for nearby libraries")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude for nearby libraries")

	return cmd
}
