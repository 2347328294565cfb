package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display spfxdoctor version and the range of supported SharePoint Framework versions.`,
		Run: func(cmd *cobra.Command, _ []string) {
			supported := rules.SupportedVersions()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "spfxdoctor v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validates SharePoint Framework projects v%s to v%s\n",
				supported[0], rules.LatestVersion())
		},
	}
}
