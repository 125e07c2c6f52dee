package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/prop-forecast/internal/models"
	"github.com/yourusername/prop-forecast/internal/prediction"
	"github.com/yourusername/prop-forecast/internal/scenario"
)

var (
	scenarioName  string
	scenarioBlend bool
	params        = models.DefaultScenarioParameters()
	complexity    string
)

func init() {
	f := scenarioCmd.Flags()
	f.StringVar(&scenarioName, "name", "cli scenario", "Scenario name")
	f.Float64Var(&params.Funding.SupportMultiplier, "support", 1, "Support funding multiplier (0-10)")
	f.Float64Var(&params.Funding.OppositionMultiplier, "opposition", 1, "Opposition funding multiplier (0-10)")
	f.Float64Var(&params.Turnout.OverallMultiplier, "turnout", 1, "Overall turnout multiplier (0.5-1.5)")
	f.Float64Var(&params.Framing.TitleSentiment, "sentiment", 0, "Title sentiment shift (-1 to 1)")
	f.StringVar(&complexity, "complexity", string(models.SummaryUnchanged), "Summary complexity: simpler, unchanged or complex")
	f.BoolVar(&scenarioBlend, "blend", false, "Blend illustrative factors into both probabilities")
}

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run a what-if scenario against a proposition",
	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := readDetails(inputFile)
		if err != nil {
			return err
		}
		params.Framing.SummaryComplexity = models.SummaryComplexity(complexity)

		store := scenario.NewStore(1, appLog)
		defer store.Close()
		created, err := store.Create(scenarioName, details.ID(), params)
		if err != nil {
			return fmt.Errorf("invalid scenario: %w", err)
		}

		c, err := buildComponents(cmd.Context())
		if err != nil {
			return err
		}
		defer c.close()

		weights := c.weights
		if scenarioBlend {
			weights.Mode = prediction.ModeBlendIllustrative
		}
		results, err := c.scenarios.RunScenario(cmd.Context(), details, &created, weights)
		if err != nil {
			return err
		}
		ran, err := store.SetResults(created.ID, results)
		if err != nil {
			return err
		}
		return printJSON(ran)
	},
}
