package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/spfxdoctor/internal/doctor"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
)

// UpgradeOptions holds options for the upgrade command.
type UpgradeOptions struct {
	ToVersion string
	Disable   []string
}

// NewUpgradeCommand creates the upgrade command.
func NewUpgradeCommand(version string) *cobra.Command {
	opts := &UpgradeOptions{}
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Show what to change to upgrade an SPFx project",
		Long: `Check what moves the SharePoint Framework project in the current directory
to a newer SPFx release.

The project is not modified. The report lists the packages to install and the
configuration changes to make, in the same formats as the doctor command. The
tour output is written to .tours/upgrade.tour.

Exit codes:
  1  project root not found
  2  upgrade check failed
  3  SPFx version not detected
  4  project SPFx version not supported
  5  rule set failed to load
  6  target version not supported
  7  project already on the target version
  8  target version older than the project`,
		Example: `  # Changes needed to move to the newest supported release
  spfxdoctor upgrade

  # Commands to run for an upgrade to 1.21.0 with pnpm
  spfxdoctor upgrade --to-version 1.21.0 --package-manager pnpm --output text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpgrade(cmd, opts, version)
		},
	}

	cmd.Flags().StringVar(&opts.ToVersion, "to-version", "", "SPFx version to upgrade to (default: newest supported)")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule ids to skip (repeatable)")

	_ = cmd.RegisterFlagCompletionFunc("to-version", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return rules.DefaultUpgrades().Targets(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runUpgrade(cmd *cobra.Command, opts *UpgradeOptions, version string) error {
	cmdCtx := NewCommandContext(cmd)
	runOpts, err := runOptions(cmd, cmdCtx, opts.Disable, version)
	if err != nil {
		return err
	}
	runOpts.Upgrade = true
	runOpts.ToVersion = opts.ToVersion

	res, err := doctor.Run(cmd.Context(), runOpts)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("upgrade checked",
		slog.String("from", res.Version),
		slog.String("to", res.ToVersion),
		slog.Int("findings", len(res.Findings)))
	reportTour(cmd, res)
	return nil
}
