package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/prediction"
)

var (
	inputFile       string
	noHistorical    bool
	illustrative    bool
	blend           bool
	searchYearsFlag string
)

func init() {
	for _, cmd := range []*cobra.Command{predictCmd, similarCmd, scenarioCmd} {
		cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Proposition details JSON file, or - for stdin")
	}
	predictCmd.Flags().BoolVar(&noHistorical, "no-historical", false, "Skip the historical archive search")
	predictCmd.Flags().BoolVar(&illustrative, "illustrative", false, "Include illustrative factors in the output")
	predictCmd.Flags().BoolVar(&blend, "blend", false, "Blend illustrative factors into the probability")
	searchCmd.Flags().StringVar(&searchYearsFlag, "years", "", "Comma-separated election years to search")
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast the passage probability of a proposition",
	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := readDetails(inputFile)
		if err != nil {
			return err
		}
		c, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer c.close()

		weights := c.weights
		if blend {
			weights.Mode = prediction.ModeBlendIllustrative
		}
		result, err := c.predictor.GeneratePrediction(cmd.Context(), prediction.Request{
			Proposition:         details,
			IncludeHistorical:   !noHistorical,
			IncludeIllustrative: illustrative || cfg.Features.IllustrativeFactorsEnabled,
		}, weights)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "List past measures comparable to a proposition",
	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := readDetails(inputFile)
		if err != nil {
			return err
		}
		if err := details.Validate(); err != nil {
			return err
		}
		c, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer c.close()

		comparisons, err := c.finder.FindSimilarPropositions(cmd.Context(), &details.Proposition)
		if err != nil {
			return err
		}
		if comparisons == nil {
			comparisons = []models.HistoricalComparison{}
		}
		return printJSON(comparisons)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Fuzzy search archived proposition titles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		years, err := parseYearList(searchYearsFlag)
		if err != nil {
			return err
		}
		c, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer c.close()

		results, err := c.finder.SearchArchive(cmd.Context(), strings.Join(args, " "), years)
		if err != nil {
			return err
		}
		return printJSON(results)
	},
}

func parseYearList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var years []int
	for _, part := range strings.Split(raw, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}
