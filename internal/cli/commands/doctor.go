package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/spfxdoctor/internal/doctor"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Watch    bool
	Debounce time.Duration
	Disable  []string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(version string) *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate an SPFx project",
		Long: `Validate the SharePoint Framework project in the current directory.

The doctor command detects the SPFx version of the project, runs every rule
that applies to that version and reports what to change:
  - json:  one record per finding occurrence (default)
  - text:  the commands to run, one per line
  - md:    a report with the commands and file changes
  - tour:  a CodeTour written to .tours/validation.tour
  - sarif: a SARIF 2.1.0 log for code scanning tools

Exit codes:
  1  project root not found
  2  validation failed
  3  SPFx version not detected
  4  SPFx version not supported
  5  rule set failed to load`,
		Example: `  # Validate the project in the current directory
  spfxdoctor doctor

  # Print the commands to run for pnpm
  spfxdoctor doctor --package-manager pnpm --output text

  # Re-run whenever package.json or another project file changes
  spfxdoctor doctor --output md --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts, version)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when project files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", doctor.DefaultDebounce, "Quiet period before re-running in watch mode")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule ids to skip (repeatable)")

	return cmd
}

// runOptions builds the options of a run from the loaded configuration.
func runOptions(cmd *cobra.Command, cmdCtx *CommandContext, disable []string, version string) (doctor.Options, error) {
	cfg := cmdCtx.Cfg

	manager, err := cfg.Manager()
	if err != nil {
		return doctor.Options{}, err
	}
	format, err := cfg.ReportFormat()
	if err != nil {
		return doctor.Options{}, err
	}
	severity, err := cfg.SeverityOverrides()
	if err != nil {
		return doctor.Options{}, err
	}

	// The root command also loads --disable into rules.disabled; repeats are harmless.
	disabled := append(append([]string(nil), cfg.GetRules().Disabled...), disable...)

	return doctor.Options{
		Dir:            cfg.ProjectDir,
		PackageManager: manager,
		Output:         format,
		Writer:         cmd.OutOrStdout(),
		Logger:         cmdCtx.Logger,
		Disabled:       disabled,
		Severity:       severity,
		ToolVersion:    version,
	}, nil
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions, version string) error {
	cmdCtx := NewCommandContext(cmd)
	runOpts, err := runOptions(cmd, cmdCtx, opts.Disable, version)
	if err != nil {
		return err
	}

	if !opts.Watch {
		res, err := doctor.Run(cmd.Context(), runOpts)
		if err != nil {
			return err
		}
		reportTour(cmd, res)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)"))

	return doctor.Watch(ctx, runOpts, opts.Debounce, func(res *doctor.Result, err error) {
		if err != nil {
			r.Error("Error: " + err.Error())
			return
		}
		reportTour(cmd, res)
	})
}

func reportTour(cmd *cobra.Command, res *doctor.Result) {
	if res == nil || res.TourPath == "" {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Tour written to %s (%d steps)\n", res.TourPath, len(res.Records)+1)
}
