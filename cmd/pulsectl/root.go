package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Vinith-15116/studio1/pkg/observability"
)

// cli carries state shared by all subcommands.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	logLevel  string
	logFormat string
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "pulsectl",
		Short: "Triage global risk reports with a generative model",
		Long: `pulsectl asks a generative model to classify a risk report as
CRITICAL, WARNING or NORMAL with a one-sentence explanation.

Without --server it calls the backend configured by the same environment
variables as pulsed (MODEL_BACKEND, GEMINI_API_KEY, OPENAI_API_KEY, ...).
With --server it calls a running pulsed over gRPC.`,
		Example: `  # Classify a report given on the command line
  pulsectl recommend --title "Flooding" --description "River levels rising" --tag water

  # Classify a report from a YAML file through a running daemon
  pulsectl recommend -f report.yaml --server localhost:8090

  # Show the prompt a model would receive
  pulsectl render -f report.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.logger = observability.InitLogger(observability.LogConfig{
				Level:  c.logLevel,
				Format: c.logFormat,
				Output: c.errOut,
			})
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		c.newRecommendCmd(),
		c.newRenderCmd(),
		c.newEventsCmd(),
		c.newDevCertsCmd(),
	)
	return root
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
