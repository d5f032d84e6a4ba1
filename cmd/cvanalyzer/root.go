package main

import (
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/cv-analyzer/internal/config"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/analyzeclient"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/cache"
)

// EndpointEnv overrides the analysis endpoint unless --endpoint is given.
const EndpointEnv = "CV_ANALYZER_ENDPOINT"

// errReported marks failures already shown to the user.
var errReported = errors.New("reported")

type app struct {
	configPath string
	endpoint   string
	cacheDir   string
	timeout    time.Duration

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cvanalyzer",
		Short: "Analyze a CV and show ATS score, skills and role matches",
		Long: `cvanalyzer sends the text of a PDF or TXT resume to the CV analysis service
and renders the results: ATS score, a skills radar, strengths and gaps,
recommended roles and a rewritten profile summary.

The latest result is cached on this device so "cvanalyzer show" works offline.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.load() },
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (optional)")
	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "analysis endpoint (default "+config.DefaultEndpoint+", env "+EndpointEnv+")")
	root.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", "", "directory of the result cache (default: user cache dir)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "request timeout, 0 waits indefinitely")

	root.AddCommand(
		newAnalyzeCmd(a),
		newShowCmd(a),
		newClearCmd(a),
		newRadarCmd(a),
		newHistoryCmd(a),
		newRewriteCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	a.cfg = cfg

	switch {
	case a.endpoint != "":
	case os.Getenv(EndpointEnv) != "":
		a.endpoint = os.Getenv(EndpointEnv)
	default:
		a.endpoint = cfg.Client.Endpoint
	}
	if a.cacheDir == "" {
		a.cacheDir = cfg.Client.CacheDir
	}
	return nil
}

func (a *app) client() *analyzeclient.Client {
	return analyzeclient.New(a.endpoint, &http.Client{Timeout: a.timeout})
}

func (a *app) resultStore() (*cache.ResultStore, error) {
	dir := a.cacheDir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return cache.NewResultStore(cache.NewFileKV(dir)), nil
}
