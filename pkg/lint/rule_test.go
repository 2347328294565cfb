package lint

import (
	"testing"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRule implements Rule for testing
type mockRule struct {
	Base
	fire bool
	err  error
}

func newMockRule(id string, fire bool, supersedes ...string) *mockRule {
	return &mockRule{
		Base: Base{Def: RuleDef{
			ID:             id,
			Title:          "mock " + id,
			Description:    "A mock rule",
			Severity:       core.SeverityRecommended,
			Resolution:     "install mock@1.0.0",
			ResolutionType: core.ResolutionCmd,
			File:           project.FilePackageJSON,
			Supersedes:     supersedes,
		}},
		fire: fire,
	}
}

func (m *mockRule) Visit(_ *project.Project, findings *[]Finding) error {
	if m.err != nil {
		return m.err
	}
	if m.fire {
		m.Report(findings, m.Occurrence(nil))
	}
	return nil
}

func mustParse(t *testing.T, file, raw string) *project.Document {
	t.Helper()
	doc, err := project.ParseDocument(file, []byte(raw))
	require.NoError(t, err)
	return doc
}

func TestBase_Report(t *testing.T) {
	rule := newMockRule("TST001", true, "TST000")

	var findings []Finding
	rule.Report(&findings)
	assert.Empty(t, findings, "no occurrences, no finding")

	rule.Report(&findings, rule.Occurrence(&core.Position{Line: 3, Character: 5}))
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "TST001", f.ID)
	assert.Equal(t, "mock TST001", f.Title)
	assert.Equal(t, core.SeverityRecommended, f.Severity)
	assert.Equal(t, core.ResolutionCmd, f.ResolutionType)
	assert.Equal(t, []string{"TST000"}, f.Supersedes)
	require.Len(t, f.Occurrences, 1)
	assert.Equal(t, project.FilePackageJSON, f.Occurrences[0].File)
	assert.Equal(t, "install mock@1.0.0", f.Occurrences[0].Resolution)
	assert.Equal(t, &core.Position{Line: 3, Character: 5}, f.Occurrences[0].Position)
}

func TestCheckRule(t *testing.T) {
	def := RuleDef{ID: "TST002", Title: "check", Severity: core.SeverityOptional, File: project.FileTsConfigJSON}

	t.Run("no occurrences", func(t *testing.T) {
		rule := NewCheckRule(def, func(_ *CheckRule, _ *project.Project) ([]Occurrence, error) {
			return nil, nil
		})
		var findings []Finding
		require.NoError(t, rule.Visit(&project.Project{}, &findings))
		assert.Empty(t, findings)
	})

	t.Run("multiple occurrences in one finding", func(t *testing.T) {
		rule := NewCheckRule(def, func(r *CheckRule, _ *project.Project) ([]Occurrence, error) {
			return []Occurrence{r.Occurrence(nil), r.Occurrence(nil)}, nil
		})
		var findings []Finding
		require.NoError(t, rule.Visit(&project.Project{}, &findings))
		require.Len(t, findings, 1)
		assert.Len(t, findings[0].Occurrences, 2)
	})
}

func TestGetRuleInfo(t *testing.T) {
	info := GetRuleInfo(newMockRule("TST003", false, "TST001"))

	assert.Equal(t, "TST003", info.ID)
	assert.Equal(t, "mock TST003", info.Title)
	assert.Equal(t, core.SeverityRecommended, info.Severity)
	assert.Equal(t, core.ResolutionCmd, info.ResolutionType)
	assert.Equal(t, project.FilePackageJSON, info.File)
	assert.Equal(t, []string{"TST001"}, info.Supersedes)
}

func TestRuleSet(t *testing.T) {
	set, err := NewRuleSet(newMockRule("B", false), newMockRule("A", false))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	rules := set.Rules()
	assert.Equal(t, "B", rules[0].ID(), "insertion order is kept")

	r, ok := set.Get("A")
	require.True(t, ok)
	assert.Equal(t, "A", r.ID())

	_, ok = set.Get("C")
	assert.False(t, ok)

	err = set.Add(newMockRule("A", false))
	assert.ErrorContains(t, err, "duplicate rule A")

	infos := set.Info()
	require.Len(t, infos, 2)
	assert.Equal(t, "B", infos[0].ID)
}

func TestFindIndex(t *testing.T) {
	findings := []Finding{{ID: "A"}, {ID: "B"}, {ID: "B"}}
	assert.Equal(t, 1, FindIndex(findings, "B"))
	assert.Equal(t, -1, FindIndex(findings, "C"))
}

func TestBuildDocURL(t *testing.T) {
	t.Cleanup(ResetDocsBaseURL)

	assert.Equal(t, DefaultDocsBaseURL+"/fn001001.md", BuildDocURL("FN001001"))

	SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/fn001001.md", BuildDocURL("FN001001"))
}
