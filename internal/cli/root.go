package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/wbshub/internal/config"
	"github.com/alexanderramin/wbshub/internal/logging"
	"github.com/alexanderramin/wbshub/internal/service"
)

// App holds the services and I/O a session runs against.
type App struct {
	Config      config.Config
	Templates   service.TemplateService
	Planner     service.PlannerService
	Submissions service.SubmissionService
	Preferences service.PreferencesService
	Logger      logging.Logger
	Prompter    Prompter

	// LoadErrors are template files that were skipped at startup.
	LoadErrors []error

	// Interactive is true when stdin is a terminal. It selects the
	// bubbletea progress view over plain progress lines.
	Interactive bool
	// Width is the terminal width used to fit the preview; 0 means unlimited.
	Width int

	In  io.Reader
	Out io.Writer
}

// Options holds the root command flags.
type Options struct {
	ConfigPath   string
	TemplatesDir string
	Endpoint     string
	Delay        time.Duration
	DelaySet     bool
	Yes          bool
	LogLevel     string
	LogJSON      bool
}

// Apply overrides cfg with the flags that were given.
func (o Options) Apply(cfg *config.Config) {
	if o.TemplatesDir != "" {
		cfg.TemplatesDir = o.TemplatesDir
	}
	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
	}
	if o.DelaySet {
		cfg.DelayMs = int(o.Delay / time.Millisecond)
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogJSON {
		cfg.LogFormat = string(logging.FormatJSON)
	}
}

// Bootstrap builds the App for one run from the parsed flags. The returned
// cleanup, if any, runs after the session ends.
type Bootstrap func(ctx context.Context, opts Options) (*App, func(), error)

// NewRootCmd creates the "wbshub" command. It has no subcommands: running it
// starts one form session.
func NewRootCmd(bootstrap Bootstrap) *cobra.Command {
	var opts Options

	root := &cobra.Command{
		Use:           "wbshub",
		Short:         "Generate WBS task lists and submit them to an automation webhook",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.DelaySet = cmd.Flags().Changed("delay")

			app, cleanup, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if cleanup != nil {
				defer cleanup()
			}
			if app.Out == nil {
				app.Out = cmd.OutOrStdout()
			}
			if app.In == nil {
				app.In = cmd.InOrStdin()
			}
			if app.Logger == nil {
				app.Logger = logging.Noop
			}
			return runSession(cmd.Context(), app, opts)
		},
	}

	bindFlags(root.Flags(), &opts)
	return root
}

func bindFlags(f *pflag.FlagSet, opts *Options) {
	f.StringVar(&opts.ConfigPath, "config", "", "path to the YAML config file (default ./config.yaml)")
	f.StringVar(&opts.TemplatesDir, "templates", "", "directory holding template files")
	f.StringVar(&opts.Endpoint, "endpoint", "", "webhook endpoint, overrides make_endpoint")
	f.DurationVar(&opts.Delay, "delay", 0, "pause between requests, e.g. 500ms")
	f.BoolVarP(&opts.Yes, "yes", "y", false, "submit without asking for confirmation")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&opts.LogJSON, "log-json", false, "write logs as JSON")
}
