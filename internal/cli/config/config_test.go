package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
	"github.com/leapstack-labs/spfxdoctor/pkg/report"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("project-dir", "", "")
	fs.String("package-manager", "", "")
	fs.StringP("output", "o", "", "")
	fs.String("format", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringSlice("disable", nil, "")
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "spfxdoctor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--project-dir", dir}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectDir)
	assert.Equal(t, DefaultPackageManager, cfg.PackageManager)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.GetRules().Disabled)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	writeConfig(t, dir, `
package_manager: pnpm
output: md
rules:
  disabled:
    - FN017001
  severity:
    FN001008: optional
`)

	t.Run("config file", func(t *testing.T) {
		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--project-dir", dir}))

		cfg, err := LoadConfig("", fs)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "spfxdoctor.yaml"), GetConfigFileUsed())
		assert.Equal(t, "pnpm", cfg.PackageManager)
		assert.Equal(t, "md", cfg.Output)
		assert.Equal(t, []string{"FN017001"}, cfg.GetRules().Disabled)

		sev, err := cfg.SeverityOverrides()
		require.NoError(t, err)
		assert.Equal(t, map[string]core.Severity{"FN001008": core.SeverityOptional}, sev)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("SPFXDOCTOR_PACKAGE_MANAGER", "yarn")
		t.Setenv("SPFXDOCTOR_RULES_DISABLED", "FN000002, FN000003")

		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--project-dir", dir}))

		cfg, err := LoadConfig("", fs)
		require.NoError(t, err)

		m, err := cfg.Manager()
		require.NoError(t, err)
		assert.Equal(t, pkgmgr.Yarn, m)
		assert.Equal(t, []string{"FN000002", "FN000003"}, cfg.GetRules().Disabled)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("SPFXDOCTOR_OUTPUT", "text")

		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--project-dir", dir, "-o", "tour", "--disable", "FN021001"}))

		cfg, err := LoadConfig("", fs)
		require.NoError(t, err)

		f, err := cfg.ReportFormat()
		require.NoError(t, err)
		assert.Equal(t, report.FormatTour, f)
		assert.Equal(t, []string{"FN021001"}, cfg.GetRules().Disabled)
	})
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	path := writeConfig(t, t.TempDir(), "verbose: true\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{"package manager", []string{"--package-manager", "bun"}, "npm, pnpm, yarn"},
		{"output", []string{"-o", "html"}, "json, text, md, tour, sarif"},
		{"format", []string{"--format", "xml"}, "auto, text, markdown, json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetConfig)
			fs := newFlags()
			require.NoError(t, fs.Parse(append([]string{"--project-dir", t.TempDir()}, tt.args...)))

			_, err := LoadConfig("", fs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestSeverityOverrides_Invalid(t *testing.T) {
	cfg := Defaults()
	cfg.Rules.Severity = map[string]string{"FN001001": "fatal"}

	_, err := cfg.SeverityOverrides()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules.severity.FN001001")
	assert.Error(t, cfg.Validate())
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SPFXDOCTOR_PACKAGE_MANAGER":         "package_manager",
		"SPFXDOCTOR_RULES_DISABLED":          "rules.disabled",
		"SPFXDOCTOR_RULES_SEVERITY_FN001001": "rules.severity.fn001001",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestGetLogger(t *testing.T) {
	logger := NewLogger(os.Stderr, true)
	ctx := WithLogger(t.Context(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(t.Context()))
}
