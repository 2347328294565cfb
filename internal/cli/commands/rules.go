package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/spfxdoctor/internal/cli/output"
	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	SPFxVersion string
	Long        bool // Show resolutions and superseded rules
}

// Rule sections, in display order.
const (
	sectionGeneric = "generic"
	sectionVersion = "version specific"
	sectionManager = "package manager"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the rules checked for an SPFx version",
		Long: `List the rules the doctor command evaluates, in evaluation order.

Without --spfx-version the version of the project in the current directory is
used, falling back to the latest supported version.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List the rules for the current project
  spfxdoctor rules

  # List the rules for SPFx 1.18.0 with pnpm resolutions
  spfxdoctor rules --spfx-version 1.18.0 --package-manager pnpm --long

  # Show a single rule
  spfxdoctor rules FN001001

  # Output as JSON
  spfxdoctor rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SPFxVersion, "spfx-version", "", "SharePoint Framework version (default: detected)")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Show resolutions and superseded rules")

	_ = cmd.RegisterFlagCompletionFunc("spfx-version", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return rules.SupportedVersions(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// ruleSet resolves the active rules with resolutions templated for the
// configured package manager.
func ruleSet(cmd *cobra.Command, opts *RulesOptions) (*CommandContext, string, pkgmgr.Manager, []core.RuleInfo, error) {
	cmdCtx := NewCommandContext(cmd)

	manager, err := cmdCtx.Cfg.Manager()
	if err != nil {
		return nil, "", "", nil, err
	}

	version := resolveVersion(opts.SPFxVersion, cmdCtx.Cfg.ProjectDir, cmdCtx.Logger)
	set, err := rules.Resolve(version, manager)
	if err != nil {
		return nil, "", "", nil, err
	}

	infos := set.Info()
	for i := range infos {
		if infos[i].ResolutionType == core.ResolutionCmd {
			infos[i].Resolution = pkgmgr.Substitute(infos[i].Resolution, manager)
		}
	}
	return cmdCtx, version, manager, infos, nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, version, manager, infos, err := ruleSet(cmd, opts)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{
			Version:        version,
			PackageManager: string(manager),
			Rules:          infos,
			Count:          len(infos),
		})
	case output.ModeMarkdown:
		listRulesMarkdown(r, version, manager, infos, opts.Long)
	default:
		listRulesText(r, version, manager, infos, opts.Long)
	}
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Version        string          `json:"version"`
	PackageManager string          `json:"packageManager"`
	Rules          []core.RuleInfo `json:"rules"`
	Count          int             `json:"count"`
}

func listRulesText(r *output.Renderer, version string, manager pkgmgr.Manager, infos []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Rules for SharePoint Framework v%s (%d, %s)", version, len(infos), manager)))
	r.Println("")

	for _, sec := range groupBySection(infos) {
		r.Println(styles.Header2.Render(sectionTitle(sec.name)))

		t := newRulesTable(sec.rules, verbose, func(sev core.Severity) string {
			return styles.Severity(sev).Render(sev.String())
		})
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'spfxdoctor rules <rule-id>' for details"))
}

func listRulesMarkdown(r *output.Renderer, version string, manager pkgmgr.Manager, infos []core.RuleInfo, verbose bool) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Rules for SharePoint Framework v%s", version)))
	r.Println(output.FormatKeyValue("Package manager", string(manager)))
	r.Println(output.FormatKeyValue("Rules", fmt.Sprintf("%d", len(infos))))
	r.Println("")

	for _, sec := range groupBySection(infos) {
		r.Println(output.FormatHeader(2, sectionTitle(sec.name)))
		t := newRulesTable(sec.rules, verbose, core.Severity.String)
		r.Println(t.RenderMarkdown())
		r.Println("")
	}
}

func newRulesTable(infos []core.RuleInfo, verbose bool, severity func(core.Severity) string) table.Writer {
	t := table.NewWriter()
	header := table.Row{"ID", "Title", "Severity", "File"}
	if verbose {
		header = append(header, "Resolution", "Supersedes")
	}
	t.AppendHeader(header)

	for _, info := range infos {
		row := table.Row{info.ID, info.Title, severity(info.Severity), strings.TrimPrefix(info.File, "./")}
		if verbose {
			row = append(row, oneLine(info.Resolution), strings.Join(info.Supersedes, ", "))
		}
		t.AppendRow(row)
	}
	return t
}

type section struct {
	name  string
	rules []core.RuleInfo
}

// groupBySection splits rules into generic, version specific and package
// manager rules, keeping evaluation order inside each section.
func groupBySection(infos []core.RuleInfo) []section {
	generic := make(map[string]bool)
	for _, r := range rules.Generic() {
		generic[r.ID()] = true
	}

	sections := []section{{name: sectionGeneric}, {name: sectionVersion}, {name: sectionManager}}
	for _, info := range infos {
		switch {
		case generic[info.ID]:
			sections[0].rules = append(sections[0].rules, info)
		case info.ID == rules.DedupeRuleID:
			sections[2].rules = append(sections[2].rules, info)
		default:
			sections[1].rules = append(sections[1].rules, info)
		}
	}

	out := sections[:0]
	for _, s := range sections {
		if len(s.rules) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func sectionTitle(name string) string {
	return cases.Title(language.English).String(name) + " rules"
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx, version, _, infos, err := ruleSet(cmd, opts)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	var rule *core.RuleInfo
	for i := range infos {
		if strings.EqualFold(infos[i].ID, ruleID) {
			rule = &infos[i]
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q is not checked for SharePoint Framework v%s", ruleID, version)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, rule)
	default:
		showRuleText(r, rule)
	}
	return nil
}

func showRuleText(r *output.Renderer, rule *core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Title)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), styles.Severity(rule.Severity).Render(rule.Severity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("File"), rule.File)
	r.Printf("  %s: %s\n", styles.Bold.Render("Resolution type"), rule.ResolutionType)
	if len(rule.Supersedes) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Supersedes"), strings.Join(rule.Supersedes, ", "))
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Resolution != "" {
		r.Println(styles.Bold.Render("Resolution"))
		for _, line := range strings.Split(rule.Resolution, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(lint.BuildDocURL(rule.ID)))
}

func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("%s - %s", rule.ID, rule.Title)))
	r.Println(output.FormatKeyValue("Severity", "`"+rule.Severity.String()+"`"))
	r.Println(output.FormatKeyValue("File", "`"+rule.File+"`"))
	if len(rule.Supersedes) > 0 {
		r.Println(output.FormatKeyValue("Supersedes", strings.Join(rule.Supersedes, ", ")))
	}
	r.Println("")
	r.Println(rule.Description)
	r.Println("")

	if rule.Resolution != "" {
		lang := "sh"
		if rule.ResolutionType == core.ResolutionJSON {
			lang = "json"
		}
		r.Println(output.FormatHeader(2, "Resolution"))
		r.Println("```" + lang)
		r.Println(rule.Resolution)
		r.Println("```")
		r.Println("")
	}

	r.Printf("[Documentation](%s)\n", lint.BuildDocURL(rule.ID))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
