package cli

import (
	"errors"
	"fmt"

	"FitPlan_V0.1/internal/geminiservice"
	"github.com/spf13/cobra"
)

// ErrNoPlanner is returned by generate when GEMINI_API_KEY is not set.
var ErrNoPlanner = errors.New("gemini is not configured: set GEMINI_API_KEY")

func newPromptCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt PROFILE",
		Short: "Print the generation prompt for a profile JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := readProfile(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), geminiservice.BuildPlanPrompt(profile))
			return err
		},
	}
}

func newGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate PROFILE",
		Short: "Generate a plan for a profile JSON file using Gemini",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Planner == nil {
				return ErrNoPlanner
			}
			profile, err := readProfile(cmd, args[0])
			if err != nil {
				return err
			}

			p, err := app.Planner.GeneratePlan(cmd.Context(), profile)
			if err != nil {
				return describeParseError(err)
			}
			return app.writeJSON(cmd, p)
		},
	}
}
