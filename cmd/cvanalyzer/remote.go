package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	appintake "github.com/bryanwahyu/cv-analyzer/internal/application/intake"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/analyzeclient"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses stored by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.client().History(cmd.Context(), limit)
			if err != nil {
				if analysis.IsAborted(err) {
					return nil
				}
				return errors.Wrap(errors.New(analysis.Message(err)), "failed to load history")
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSCORE\tROLES")
			for _, r := range list {
				created := "-"
				if r.CreatedAt != nil {
					created = r.CreatedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", orDash(r.Identifier()), created, r.Score(), orDash(strings.Join(r.RoleList(), ", ")))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of analyses to list (1-100)")
	return cmd
}

func newRewriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite <file>",
		Short: "Ask the service for a rewritten profile summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := intake.FromPath(args[0])
			if err != nil {
				return errors.Wrapf(err, "cannot open %s", args[0])
			}
			dz := appintake.NewDropzone(nil, appintake.WithMaxBytes(a.cfg.UploadLimit()))
			if err := dz.Browse([]*intake.SelectedFile{file}); err != nil {
				return errors.Wrap(err, "file rejected")
			}
			text, err := analyzeclient.ReadText(file)
			if err != nil {
				return errors.New(analysis.Message(err))
			}
			out, err := a.client().RewriteSummary(cmd.Context(), text)
			if err != nil {
				if analysis.IsAborted(err) {
					return nil
				}
				return errors.Wrap(errors.New(analysis.Message(err)), "rewrite failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
