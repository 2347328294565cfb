// Package commands implements the spfxdoctor CLI commands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/spfxdoctor/internal/cli/config"
	"github.com/leapstack-labs/spfxdoctor/internal/cli/output"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Format)),
	}
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Defaults()
}

// resolveVersion returns explicit when set, else the version of the project
// in dir, else the latest supported version.
func resolveVersion(explicit, dir string, logger *slog.Logger) string {
	if explicit != "" {
		return explicit
	}
	if root, err := project.FindRoot(dir); err == nil {
		if p, err := project.Load(root, project.SkipFiles(project.FilePackageLock)); err == nil {
			if v := project.DetectVersion(p); v != "" {
				logger.Debug("using project version", slog.String("version", v), slog.String("root", root))
				return v
			}
		}
	}
	latest := rules.LatestVersion()
	logger.Debug("no project version found, using latest", slog.String("version", latest))
	return latest
}
