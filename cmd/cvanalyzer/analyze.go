package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	appintake "github.com/bryanwahyu/cv-analyzer/internal/application/intake"
	"github.com/bryanwahyu/cv-analyzer/internal/application/dashboard"
	"github.com/bryanwahyu/cv-analyzer/internal/application/upload"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Upload a PDF or TXT CV and show the analysis",
		Example: `  cvanalyzer analyze resume.pdf
  cvanalyzer analyze resume.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.resultStore()
			if err != nil {
				return errors.Wrap(err, "failed to open result cache")
			}

			errOut := cmd.ErrOrStderr()
			notifier := upload.NotifierFunc(func(n upload.Notification) {
				fmt.Fprintf(errOut, "%s: %s\n", n.Title, strings.TrimRight(n.Description, "\r\n"))
			})
			flow := upload.NewFlow(a.client(), store, notifier)
			dz := appintake.NewDropzone(flow.SelectFile, appintake.WithMaxBytes(a.cfg.UploadLimit()))

			file, err := intake.FromPath(args[0])
			if err != nil {
				return errors.Wrapf(err, "cannot open %s", args[0])
			}
			if err := dz.Browse([]*intake.SelectedFile{file}); err != nil {
				return errors.Wrap(err, "file rejected")
			}

			fmt.Fprintf(errOut, "Analyzing %s...\n", file.Name)
			nav, err := flow.Analyze(ctx)
			if err != nil {
				if analysis.IsAborted(err) {
					return nil
				}
				// the notifier already printed the message
				return errors.Wrap(errReported, flow.InlineError())
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), nav.Analysis)
			}
			return dashboard.Render(cmd.OutOrStdout(), dashboard.Hydrate(ctx, nav, store))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw analysis JSON instead of the dashboard")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
