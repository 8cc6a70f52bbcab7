package cli

import (
	"errors"
	"fmt"

	"FitPlan_V0.1/internal/plan"
	"github.com/spf13/cobra"
)

func newNormalizeCmd(app *App) *cobra.Command {
	var withView bool

	cmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Sanitize, parse and normalize a saved model reply (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			p, err := plan.ParseReply(string(raw))
			if err != nil {
				return describeParseError(err)
			}

			if !withView {
				return app.writeJSON(cmd, p)
			}
			return app.writeJSON(cmd, struct {
				Plan *plan.GeneratedPlan `json:"plan"`
				View plan.PlanView       `json:"view"`
			}{p, plan.BuildView(p)})
		},
	}

	cmd.Flags().BoolVar(&withView, "view", false, "include the presentation view")
	return cmd
}

func newClassifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE",
		Short: "Report which dietPlan layout a saved model reply uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			p, err := plan.Parse(plan.Sanitize(string(raw)), string(raw))
			if err != nil {
				return describeParseError(err)
			}

			shape := plan.ClassifyDiet(p.RawDiet)
			week := plan.NormalizeDiet(p.RawDiet)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shape: %s\n", shape.Kind)
			for _, day := range week {
				fmt.Fprintf(out, "%-9s %d meals\n", day.Day, len(day.Meals))
			}
			return nil
		},
	}
}

func describeParseError(err error) error {
	var pe *plan.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w (raw reply is %d bytes)", err, len(pe.Raw))
	}
	return err
}
