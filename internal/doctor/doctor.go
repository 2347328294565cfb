// Package doctor runs one validation of an SPFx project: it locates and
// loads the project, resolves the rule set for its version, evaluates the
// rules and renders the report. An upgrade run swaps the version rule set
// for the upgrade steps onto a newer release.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
	"github.com/leapstack-labs/spfxdoctor/pkg/report"
)

// Options configures a run.
type Options struct {
	Dir            string
	PackageManager pkgmgr.Manager
	Output         report.Format
	Writer         io.Writer

	Logger   *slog.Logger
	Disabled []string
	Severity map[string]core.Severity

	// Catalog overrides the built-in rule catalog.
	Catalog *rules.Catalog

	// Upgrade checks what moves the project to ToVersion (the newest
	// upgrade target when empty) instead of validating its own version.
	Upgrade   bool
	ToVersion string
	Upgrades  *rules.UpgradeCatalog

	Now         func() time.Time
	ToolVersion string
}

// Result describes a completed run.
type Result struct {
	Root      string
	Version   string
	ToVersion string // upgrade runs only
	Findings  []lint.Finding
	Records  []report.FindingToReport
	TourPath string
}

// Run validates the project containing opts.Dir and writes the report.
// Failures are returned as *CommandError.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	logger := opts.Logger

	root, err := project.FindRoot(opts.Dir)
	if err != nil {
		if errors.Is(err, project.ErrNoProjectRoot) {
			return nil, newCommandError(ExitNoProjectRoot, "Couldn't find project root folder", err)
		}
		return nil, newCommandError(ExitFailure, err.Error(), err)
	}
	logger.Debug("project root found", slog.String("root", root))

	var loadOpts []project.LoadOption
	if opts.PackageManager != pkgmgr.NPM {
		// package-lock.json is only read by the npm dedupe rule.
		loadOpts = append(loadOpts, project.SkipFiles(project.FilePackageLock))
	}
	p, err := project.Load(root, loadOpts...)
	if err != nil {
		return nil, newCommandError(ExitFailure, err.Error(), err)
	}

	version := project.DetectVersion(p)
	logger.Debug("project version detected", slog.String("version", version))

	set, err := resolveRules(opts, version)
	if err != nil {
		return nil, resolveError(opts, version, err)
	}
	logger.Debug("rule set resolved",
		slog.String("version", version),
		slog.String("to_version", opts.ToVersion),
		slog.Int("rules", set.Len()),
		slog.String("package_manager", string(opts.PackageManager)))

	if err := ctx.Err(); err != nil {
		return nil, newCommandError(ExitFailure, err.Error(), err)
	}

	cfg := lint.NewConfig().Disable(opts.Disabled...)
	for id, sev := range opts.Severity {
		cfg.SetSeverity(id, sev)
	}

	findings, err := lint.NewAnalyzer(cfg).Analyze(p, set.Rules())
	if err != nil {
		return nil, newCommandError(ExitFailure, err.Error(), err)
	}
	logger.Debug("rules evaluated", slog.Int("findings", len(findings)))

	res := &Result{
		Root:      root,
		Version:   version,
		ToVersion: opts.ToVersion,
		Findings:  findings,
		Records:   report.Prepare(findings, opts.PackageManager),
	}

	in := report.Input{
		ProjectName: p.SolutionName(),
		Manager:     opts.PackageManager,
		Records:     res.Records,
		Now:         opts.Now(),
		ToolVersion: opts.ToolVersion,
		ToVersion:   opts.ToVersion,
	}

	if opts.Output == report.FormatTour {
		payload, err := report.Tour(in)
		if err != nil {
			return nil, newCommandError(ExitFailure, err.Error(), err)
		}
		path, err := report.WriteTour(root, in.TourName(), payload)
		if err != nil {
			return nil, newCommandError(ExitFailure, err.Error(), err)
		}
		logger.Debug("tour written", slog.String("path", path))
		res.TourPath = path
		return res, nil
	}

	if err := report.Render(opts.Writer, opts.Output, in); err != nil {
		return nil, newCommandError(ExitFailure, fmt.Sprintf("failed to render report: %v", err), err)
	}
	return res, nil
}

func withDefaults(opts Options) Options {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.PackageManager == "" {
		opts.PackageManager = pkgmgr.Default
	}
	if opts.Output == "" {
		opts.Output = report.FormatJSON
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Catalog == nil {
		opts.Catalog = rules.Default()
	}
	if opts.Upgrades == nil {
		opts.Upgrades = rules.DefaultUpgrades()
	}
	if opts.Upgrade && opts.ToVersion == "" {
		opts.ToVersion = opts.Upgrades.Latest()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// resolveRules returns the version rule set, or the upgrade steps onto
// opts.ToVersion for an upgrade run.
func resolveRules(opts Options, version string) (*lint.RuleSet, error) {
	if opts.Upgrade {
		return opts.Upgrades.Resolve(version, opts.ToVersion, opts.PackageManager)
	}
	return opts.Catalog.Resolve(version, opts.PackageManager)
}

func resolveError(opts Options, version string, err error) error {
	action := "validating"
	if opts.Upgrade {
		action = "upgrading"
	}

	switch {
	case errors.Is(err, rules.ErrVersionNotDetected):
		return newCommandError(ExitNoVersion,
			"Unable to determine the version of the current SharePoint Framework project", err)
	case errors.Is(err, rules.ErrUnsupportedVersion):
		return newCommandError(ExitUnsupportedVersion,
			fmt.Sprintf("spfxdoctor doesn't support %s projects built using SharePoint Framework v%s", action, version), err)
	case errors.Is(err, rules.ErrUnsupportedTarget):
		return newCommandError(ExitUnsupportedTarget,
			fmt.Sprintf("spfxdoctor doesn't support upgrading SharePoint Framework projects to version %s. Supported versions are %s",
				opts.ToVersion, strings.Join(opts.Upgrades.Targets(), ", ")), err)
	case errors.Is(err, rules.ErrUpToDate):
		return newCommandError(ExitUpToDate, "Project doesn't need to be upgraded", err)
	case errors.Is(err, rules.ErrDowngrade):
		return newCommandError(ExitDowngrade, "You cannot downgrade a project", err)
	case errors.Is(err, rules.ErrRuleSetLoad):
		return newCommandError(ExitRuleSetLoad, err.Error(), err)
	default:
		return newCommandError(ExitFailure, err.Error(), err)
	}
}
