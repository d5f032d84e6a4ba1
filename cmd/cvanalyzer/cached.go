package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/cv-analyzer/internal/application/dashboard"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
)

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the last analysis from the device cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.resultStore()
			if err != nil {
				return errors.Wrap(err, "failed to open result cache")
			}
			view := dashboard.Hydrate(cmd.Context(), nil, store)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view.Result)
			}
			return dashboard.Render(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the cached analysis JSON")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the cached analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.resultStore()
			if err != nil {
				return errors.Wrap(err, "failed to open result cache")
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return errors.Wrap(err, "failed to clear result cache")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cached analysis cleared.")
			return nil
		},
	}
}

func newRadarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "radar [skill...]",
		Short: "Score skills per category (Backend, Frontend, Data, Cloud/DevOps, APIs)",
		Long: `Without arguments the skills of the cached analysis are used.
With arguments, the given skills are scored instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			skills := args
			if len(skills) == 0 {
				store, err := a.resultStore()
				if err != nil {
					return errors.Wrap(err, "failed to open result cache")
				}
				res, ok := store.Load(cmd.Context())
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No analysis yet. Run: cvanalyzer analyze <file>")
					return nil
				}
				skills = res.SkillList()
			}
			for _, cs := range analysis.Radar(skills) {
				n := cs.Score / 5
				fmt.Fprintf(cmd.OutOrStdout(), "%-13s %s%s %3d\n", cs.Category,
					strings.Repeat("#", n), strings.Repeat(".", 20-n), cs.Score)
			}
			return nil
		},
	}
}
