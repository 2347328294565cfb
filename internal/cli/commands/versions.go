package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/spfxdoctor/internal/cli/output"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
)

// VersionEntry describes one supported SPFx version.
type VersionEntry struct {
	Version string `json:"version"`
	Rules   int    `json:"rules"`
}

// NewVersionsCommand creates the versions command.
func NewVersionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the supported SharePoint Framework versions",
		Long: `List every SharePoint Framework version spfxdoctor can validate, oldest
first, with the number of rules checked for it.`,
		Example: `  spfxdoctor versions
  spfxdoctor versions --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listVersions(cmd)
		},
	}
}

func listVersions(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	manager, err := cmdCtx.Cfg.Manager()
	if err != nil {
		return err
	}

	versions := rules.SupportedVersions()
	entries := make([]VersionEntry, 0, len(versions))
	for _, v := range versions {
		set, err := rules.Resolve(v, manager)
		if err != nil {
			return fmt.Errorf("version %s: %w", v, err)
		}
		entries = append(entries, VersionEntry{Version: v, Rules: set.Len()})
	}

	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(entries)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Version", "Rules"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Version, e.Rules})
	}

	if mode == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Supported SharePoint Framework versions"))
		r.Println(t.RenderMarkdown())
		return nil
	}

	t.SetStyle(table.StyleLight)
	r.Header(1, fmt.Sprintf("Supported SharePoint Framework versions (%d)", len(entries)))
	r.Println(t.Render())
	return nil
}
