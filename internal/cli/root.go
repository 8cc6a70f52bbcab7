/*
Package cli implements plancheck, an offline tool for inspecting model
replies and prompts without running the web server.
*/
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"FitPlan_V0.1/internal/plan"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

// Planner generates a plan from a profile. Only the generate command uses it.
type Planner interface {
	GeneratePlan(ctx context.Context, profile plan.UserProfile) (*plan.GeneratedPlan, error)
}

// App holds what the commands need.
type App struct {
	// Planner is nil when no Gemini key is configured.
	Planner Planner
	// Color enables ANSI highlighting of JSON output.
	Color bool
}

// NewRootCmd creates the top-level "plancheck" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "plancheck",
		Short:         "Inspect fitness plan prompts and model replies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newNormalizeCmd(app),
		newClassifyCmd(app),
		newPromptCmd(app),
		newGenerateCmd(app),
	)

	return root
}

// readInput reads the named file, or stdin when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func readProfile(cmd *cobra.Command, name string) (plan.UserProfile, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return plan.UserProfile{}, err
	}
	var profile plan.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return plan.UserProfile{}, fmt.Errorf("decoding profile: %w", err)
	}
	return profile.Trimmed(), nil
}

func (app *App) writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	out := pretty.Pretty(data)
	if app.Color {
		out = pretty.Color(out, pretty.TerminalStyle)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
