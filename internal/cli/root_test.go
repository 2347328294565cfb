package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxdoctor/internal/cli/commands"
	"github.com/leapstack-labs/spfxdoctor/internal/cli/config"
	"github.com/leapstack-labs/spfxdoctor/internal/cli/output"
	"github.com/leapstack-labs/spfxdoctor/internal/doctor"
	"github.com/leapstack-labs/spfxdoctor/internal/testutil"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
	"github.com/leapstack-labs/spfxdoctor/pkg/report"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootCommand_Metadata(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "spfxdoctor", root.Use)
	for _, name := range []string{"config", "project-dir", "package-manager", "output", "format", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "flag %q should exist", name)
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"doctor", "upgrade", "rules", "versions", "version", "completion"})
}

func TestDoctor_HealthyProject(t *testing.T) {
	dir := testutil.WriteProject(t, testutil.Healthy121)

	out, _, err := execute(t, "doctor", "--project-dir", dir, "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, report.NoIssuesMessage+"\n", out)
}

func TestDoctor_PackageManagerFromConfigFile(t *testing.T) {
	files := testutil.Healthy121.With(testutil.Files{
		"package.json": strings.Replace(testutil.HealthyPackageJSON,
			`"@microsoft/sp-core-library": "1.21.0"`,
			`"@microsoft/sp-core-library": "1.20.0"`, 1),
		"spfxdoctor.yaml": "package_manager: yarn\noutput: text\n",
	})
	dir := testutil.WriteProject(t, files)

	out, _, err := execute(t, "doctor", "--project-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "yarn add -E @microsoft/sp-core-library@1.21.0\n", out)
}

func TestDoctor_DisableFlag(t *testing.T) {
	files := testutil.Healthy121.With(testutil.Files{
		"package.json": strings.Replace(testutil.HealthyPackageJSON, `"private": true`, `"private": false`, 1),
	})
	dir := testutil.WriteProject(t, files)

	out, _, err := execute(t, "doctor", "--project-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "FN000003")

	out, _, err = execute(t, "doctor", "--project-dir", dir, "--disable", "FN000003")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestDoctor_Tour(t *testing.T) {
	files := testutil.Healthy121.With(testutil.Files{
		"tsconfig.json": `{"compilerOptions": {"outDir": "dist"}}`,
	})
	dir := testutil.WriteProject(t, files)

	out, errOut, err := execute(t, "doctor", "--project-dir", dir, "-o", "tour")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Tour written to")

	_, err = os.Stat(filepath.Join(dir, report.TourDir, report.TourFile))
	assert.NoError(t, err)
}

func TestDoctor_Errors(t *testing.T) {
	unsupported := testutil.WriteProject(t, testutil.Healthy121.With(testutil.Files{
		".yo-rc.json": `{"@microsoft/generator-sharepoint": {"version": "1.99.0"}}`,
	}))

	_, _, err := execute(t, "doctor", "--project-dir", unsupported)
	require.Error(t, err)
	assert.Equal(t, doctor.ExitUnsupportedVersion, doctor.ExitCode(err))
	assert.Equal(t, "spfxdoctor doesn't support validating projects built using SharePoint Framework v1.99.0", err.Error())

	_, _, err = execute(t, "doctor", "--project-dir", unsupported, "--package-manager", "bun")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported package manager")
	assert.Equal(t, doctor.ExitFailure, doctor.ExitCode(err))
}

func TestRules_JSON(t *testing.T) {
	out, _, err := execute(t, "rules", "--spfx-version", "1.21.0", "--format", "json", "--package-manager", "pnpm")
	require.NoError(t, err)

	var listing commands.RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &listing))

	assert.Equal(t, "1.21.0", listing.Version)
	assert.Equal(t, "pnpm", listing.PackageManager)
	assert.Equal(t, len(listing.Rules), listing.Count)
	assert.Equal(t, "FN000001", listing.Rules[0].ID)
	for _, r := range listing.Rules {
		assert.NotEqual(t, rules.DedupeRuleID, r.ID, "dedupe only applies to npm")
		assert.NotRegexp(t, `(^|\n)npm `, r.Resolution, "resolutions use the pnpm dialect")
	}
}

func TestRules_Markdown(t *testing.T) {
	out, _, err := execute(t, "rules", "--spfx-version", "1.21.0", "--long")
	require.NoError(t, err)

	assert.Contains(t, out, "# Rules for SharePoint Framework v1.21.0")
	assert.Contains(t, out, "## Generic rules")
	assert.Contains(t, out, "## Version Specific rules")
	assert.Contains(t, out, "## Package Manager rules")
	assert.Contains(t, out, "| FN001001 |")
	assert.NotContains(t, out, "\x1b[")
}

func TestRules_ShowRule(t *testing.T) {
	out, _, err := execute(t, "rules", "fn001001", "--spfx-version", "1.21.0")
	require.NoError(t, err)
	assert.Contains(t, out, "# FN001001 - @microsoft/sp-core-library")
	assert.Contains(t, out, "npm i -SE @microsoft/sp-core-library@1.21.0")

	_, _, err = execute(t, "rules", "FN999999", "--spfx-version", "1.21.0")
	assert.Error(t, err)
}

func TestVersions_JSON(t *testing.T) {
	out, _, err := execute(t, "versions", "-f", "json")
	require.NoError(t, err)

	var entries []commands.VersionEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, len(rules.SupportedVersions()))
	assert.Equal(t, "1.0.0", entries[0].Version)
	assert.Positive(t, entries[0].Rules)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "spfxdoctor v"+Version)
	assert.Contains(t, out, "v1.0.0 to v"+rules.LatestVersion())
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "spfxdoctor")

	_, _, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, config.DefaultOutput, GetConfig(ctx).Output)
	assert.Equal(t, output.ModeAuto, GetRenderer(ctx).Mode())

	cfg := config.Defaults()
	cfg.Output = "md"
	ctx = context.WithValue(ctx, configKey{}, cfg)
	assert.Same(t, cfg, GetConfig(ctx))
}
