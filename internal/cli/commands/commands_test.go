package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitestutil "github.com/leapstack-labs/spfxdoctor/internal/cli/testutil"
	"github.com/leapstack-labs/spfxdoctor/internal/doctor"
	"github.com/leapstack-labs/spfxdoctor/internal/testutil"
	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
	"github.com/leapstack-labs/spfxdoctor/pkg/report"
)

func outdatedProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteProject(t, testutil.Healthy121.With(testutil.Files{
		"package.json": strings.Replace(testutil.HealthyPackageJSON,
			`"@microsoft/sp-core-library": "1.21.0"`,
			`"@microsoft/sp-core-library": "1.20.0"`, 1),
	}))
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{
			name:    "release version",
			version: "1.2.3",
			wantOut: []string{"spfxdoctor v1.2.3", "v1.0.0 to v" + rules.LatestVersion()},
		},
		{
			name:    "dev version",
			version: "dev",
			wantOut: []string{"spfxdoctor vdev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := clitestutil.Execute(t, NewVersionCommand(tt.version))
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{name: "doctor", cmd: NewDoctorCommand("test"), use: "doctor", flags: []string{"watch", "debounce", "disable"}},
		{name: "upgrade", cmd: NewUpgradeCommand("test"), use: "upgrade", flags: []string{"to-version", "disable"}},
		{name: "rules", cmd: NewRulesCommand(), use: "rules [rule-id]", flags: []string{"spfx-version", "long"}},
		{name: "versions", cmd: NewVersionsCommand(), use: "versions"},
		{name: "version", cmd: NewVersionCommand("test"), use: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short)
			for _, name := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(name), "flag %q should exist", name)
			}
		})
	}
}

func TestVersions(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"FORMAT": "json"})

		out, _, err := clitestutil.Execute(t, NewVersionsCommand())
		require.NoError(t, err)

		var entries []VersionEntry
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, len(rules.SupportedVersions()))
		assert.Equal(t, rules.LatestVersion(), entries[len(entries)-1].Version)
		for _, e := range entries {
			assert.Positive(t, e.Rules, e.Version)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		clitestutil.UseConfig(t, nil)

		out, _, err := clitestutil.Execute(t, NewVersionsCommand())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "# Supported SharePoint Framework versions\n"))
		assert.Contains(t, out, "| 1.21.0 |")
		clitestutil.AssertValidMarkdown(t, out)
	})

	t.Run("text", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"FORMAT": "text"})

		out, _, err := clitestutil.Execute(t, NewVersionsCommand())
		require.NoError(t, err)
		assert.Contains(t, out, "Supported SharePoint Framework versions (45)")
		assert.Contains(t, out, "1.18.2")
		clitestutil.AssertNoANSI(t, out)
	})

	t.Run("rejects arguments", func(t *testing.T) {
		clitestutil.UseConfig(t, nil)

		_, _, err := clitestutil.Execute(t, NewVersionsCommand(), "1.21.0")
		assert.Error(t, err)
	})
}

func TestRules_VersionFromProject(t *testing.T) {
	dir := testutil.WriteProject(t, testutil.Healthy121.With(testutil.Files{
		".yo-rc.json": `{"@microsoft/generator-sharepoint": {"version": "1.18.0"}}`,
	}))
	clitestutil.UseConfig(t, map[string]string{"FORMAT": "json", "PROJECT_DIR": dir})

	out, _, err := clitestutil.Execute(t, NewRulesCommand())
	require.NoError(t, err)

	var listing RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, "1.18.0", listing.Version)
	assert.Equal(t, "npm", listing.PackageManager)
	assert.Equal(t, len(listing.Rules), listing.Count)

	var ids []string
	for _, r := range listing.Rules {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, rules.DedupeRuleID)
}

func TestRules_TextMode(t *testing.T) {
	clitestutil.UseConfig(t, map[string]string{"FORMAT": "text"})

	out, _, err := clitestutil.Execute(t, NewRulesCommand(), "--spfx-version", "1.21.0", "--long")
	require.NoError(t, err)

	assert.Contains(t, out, "Rules for SharePoint Framework v1.21.0")
	assert.Contains(t, out, "Generic rules")
	assert.Contains(t, strings.ToLower(out), "supersedes")
	assert.Contains(t, out, "npm i -SE @microsoft/sp-core-library@1.21.0")
	assert.Contains(t, out, "spfxdoctor rules <rule-id>")
	clitestutil.AssertNoANSI(t, out)
}

func TestRules_UnsupportedVersion(t *testing.T) {
	clitestutil.UseConfig(t, nil)

	_, _, err := clitestutil.Execute(t, NewRulesCommand(), "--spfx-version", "0.9.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrUnsupportedVersion)
}

func TestShowRule(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"FORMAT": "json", "PACKAGE_MANAGER": "yarn"})

		out, _, err := clitestutil.Execute(t, NewRulesCommand(), "FN001001", "--spfx-version", "1.21.0")
		require.NoError(t, err)

		var info core.RuleInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.Equal(t, "FN001001", info.ID)
		assert.Equal(t, core.SeverityRequired, info.Severity)
		assert.Equal(t, core.ResolutionCmd, info.ResolutionType)
		assert.Equal(t, "yarn add -E @microsoft/sp-core-library@1.21.0", info.Resolution)
	})

	t.Run("markdown", func(t *testing.T) {
		clitestutil.UseConfig(t, nil)

		out, _, err := clitestutil.Execute(t, NewRulesCommand(), "fn000005", "--spfx-version", "1.21.0")
		require.NoError(t, err)
		assert.Contains(t, out, "# FN000005")
		assert.Contains(t, out, "```json")
		assert.Contains(t, out, "[Documentation](")
		clitestutil.AssertValidMarkdown(t, out)
	})

	t.Run("unknown rule", func(t *testing.T) {
		clitestutil.UseConfig(t, nil)

		_, _, err := clitestutil.Execute(t, NewRulesCommand(), "FN999999", "--spfx-version", "1.21.0")
		require.Error(t, err)
		assert.Equal(t, `rule "FN999999" is not checked for SharePoint Framework v1.21.0`, err.Error())
	})
}

func TestGroupBySection(t *testing.T) {
	infos := []core.RuleInfo{
		{ID: "FN000001"},
		{ID: "FN001001"},
		{ID: "FN021001"},
		{ID: rules.DedupeRuleID},
		{ID: "FN000002"},
	}

	sections := groupBySection(infos)
	require.Len(t, sections, 3)

	assert.Equal(t, sectionGeneric, sections[0].name)
	assert.Equal(t, []core.RuleInfo{{ID: "FN000001"}, {ID: "FN000002"}}, sections[0].rules)
	assert.Equal(t, sectionVersion, sections[1].name)
	assert.Len(t, sections[1].rules, 2)
	assert.Equal(t, sectionManager, sections[2].name)

	assert.Len(t, groupBySection(infos[:1]), 1, "empty sections are dropped")
	assert.Equal(t, "Version Specific rules", sectionTitle(sectionVersion))
}

func TestResolveVersion(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	assert.Equal(t, "1.4.1", resolveVersion("1.4.1", t.TempDir(), logger))
	assert.Equal(t, "1.21.0", resolveVersion("", testutil.WriteProject(t, testutil.Healthy121), logger))
	assert.Equal(t, rules.LatestVersion(), resolveVersion("", t.TempDir(), logger))
}

func TestDoctor(t *testing.T) {
	t.Run("text report", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"OUTPUT": "text", "PROJECT_DIR": outdatedProject(t)})

		out, _, err := clitestutil.Execute(t, NewDoctorCommand("test"))
		require.NoError(t, err)
		assert.Equal(t, "npm i -SE @microsoft/sp-core-library@1.21.0\n", out)
	})

	t.Run("disable flag", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"OUTPUT": "text", "PROJECT_DIR": outdatedProject(t)})

		out, _, err := clitestutil.Execute(t, NewDoctorCommand("test"), "--disable", "FN001001")
		require.NoError(t, err)
		assert.Equal(t, report.NoIssuesMessage+"\n", out)
	})

	t.Run("disabled from env", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{
			"OUTPUT":         "text",
			"PROJECT_DIR":    outdatedProject(t),
			"RULES_DISABLED": "FN001001,FN000003",
		})

		out, _, err := clitestutil.Execute(t, NewDoctorCommand("test"))
		require.NoError(t, err)
		assert.Equal(t, report.NoIssuesMessage+"\n", out)
	})

	t.Run("sarif", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"OUTPUT": "sarif", "PROJECT_DIR": outdatedProject(t)})

		out, _, err := clitestutil.Execute(t, NewDoctorCommand("1.2.3"))
		require.NoError(t, err)
		assert.Contains(t, out, "2.1.0")
		assert.Contains(t, out, "FN001001")
		assert.Contains(t, out, "spfxdoctor")
	})

	t.Run("tour", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"OUTPUT": "tour", "PROJECT_DIR": outdatedProject(t)})

		out, errOut, err := clitestutil.Execute(t, NewDoctorCommand("test"))
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Contains(t, errOut, "(2 steps)")
	})

	t.Run("no project root", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"PROJECT_DIR": "/nonexistent-spfxdoctor/a/b"})

		_, _, err := clitestutil.Execute(t, NewDoctorCommand("test"))
		require.Error(t, err)
		assert.Equal(t, doctor.ExitNoProjectRoot, doctor.ExitCode(err))
	})
}

func TestUpgrade(t *testing.T) {
	scaffolded120 := func(t *testing.T) string {
		t.Helper()
		return testutil.WriteProject(t, testutil.Healthy121.With(testutil.Files{
			".yo-rc.json": `{"@microsoft/generator-sharepoint": {"version": "1.20.0"}}`,
		}))
	}

	t.Run("text report", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"OUTPUT": "text", "PACKAGE_MANAGER": "pnpm", "PROJECT_DIR": scaffolded120(t)})

		out, _, err := clitestutil.Execute(t, NewUpgradeCommand("test"), "--to-version", "1.21.0")
		require.NoError(t, err)
		assert.Equal(t, "pnpm i -DE @microsoft/sp-module-interfaces@1.21.0 @microsoft/eslint-plugin-spfx@1.21.0 "+
			"@microsoft/eslint-config-spfx@1.21.0 typescript@5.3.3\n", out)
	})

	t.Run("disable flag", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"OUTPUT": "json", "PROJECT_DIR": scaffolded120(t)})

		out, _, err := clitestutil.Execute(t, NewUpgradeCommand("test"),
			"--to-version", "1.21.0", "--disable", "FN002002,FN002022,FN002023,FN002026")
		require.NoError(t, err)

		var records []report.FindingToReport
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "FN010001", records[0].ID)
	})

	t.Run("tour", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"OUTPUT": "tour", "PROJECT_DIR": scaffolded120(t)})

		_, errOut, err := clitestutil.Execute(t, NewUpgradeCommand("test"))
		require.NoError(t, err)
		assert.Contains(t, errOut, "upgrade.tour")
	})

	t.Run("unsupported target", func(t *testing.T) {
		clitestutil.UseConfig(t, map[string]string{"PROJECT_DIR": scaffolded120(t)})

		_, _, err := clitestutil.Execute(t, NewUpgradeCommand("test"), "--to-version", "1.22.0")
		require.Error(t, err)
		assert.Equal(t, doctor.ExitUnsupportedTarget, doctor.ExitCode(err))
	})

	t.Run("rejects arguments", func(t *testing.T) {
		clitestutil.UseConfig(t, nil)

		_, _, err := clitestutil.Execute(t, NewUpgradeCommand("test"), "1.21.0")
		assert.Error(t, err)
	})
}
