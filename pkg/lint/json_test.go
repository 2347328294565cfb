package lint

import (
	"testing"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonFixture = `{
  "name": "spfx-app",
  "private": true,
  "scripts": {
    "build": "gulp bundle",
    "test": "gulp test"
  },
  "engines": {
    "node": ">=18.17.1 <19.0.0"
  },
  "count": 2
}`

func TestJSONRule_Visit(t *testing.T) {
	p := &project.Project{PackageJSON: mustParse(t, project.FilePackageJSON, jsonFixture)}

	tests := []struct {
		name    string
		rule    *JSONRule
		want    bool
		wantPos core.Position
	}{
		{
			name: "equal string",
			rule: NewJSONRule("J1", project.FilePackageJSON, "scripts.build", Equals("gulp bundle")),
		},
		{
			name:    "different string",
			rule:    NewJSONRule("J2", project.FilePackageJSON, "engines.node", Equals(">=22.14.0 < 23.0.0")),
			want:    true,
			wantPos: core.Position{Line: 9, Character: 5},
		},
		{
			name:    "absent leaf points at parent",
			rule:    NewJSONRule("J3", project.FilePackageJSON, "scripts.start", Equals("gulp serve")),
			want:    true,
			wantPos: core.Position{Line: 4, Character: 3},
		},
		{
			name:    "absent path points at start of document",
			rule:    NewJSONRule("J4", project.FilePackageJSON, "resolutions.x", Equals("1")),
			want:    true,
			wantPos: core.Position{Line: 1, Character: 1},
		},
		{
			name:    "type mismatch",
			rule:    NewJSONRule("J5", project.FilePackageJSON, "private", Equals("true")),
			want:    true,
			wantPos: core.Position{Line: 3, Character: 3},
		},
		{
			name: "numbers compare across representations",
			rule: NewJSONRule("J6", project.FilePackageJSON, "count", Equals(2)),
		},
		{
			name: "structural snippet subset",
			rule: NewJSONRule("J7", project.FilePackageJSON, "scripts", Matches(map[string]any{"test": "gulp test"})),
		},
		{
			name:    "structural snippet missing key",
			rule:    NewJSONRule("J8", project.FilePackageJSON, "scripts", Matches(map[string]any{"clean": "gulp clean"})),
			want:    true,
			wantPos: core.Position{Line: 4, Character: 3},
		},
		{
			name: "predicate accepts",
			rule: NewJSONRule("J9", project.FilePackageJSON, "name", Predicate(func(v any, present bool) bool {
				s, ok := v.(string)
				return present && ok && s != ""
			})),
		},
		{
			name:    "predicate rejects",
			rule:    NewJSONRule("J10", project.FilePackageJSON, "name", Predicate(func(_ any, _ bool) bool { return false })),
			want:    true,
			wantPos: core.Position{Line: 2, Character: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var findings []Finding
			require.NoError(t, tt.rule.Visit(p, &findings))

			if !tt.want {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			occ := findings[0].Occurrences
			require.Len(t, occ, 1)
			require.NotNil(t, occ[0].Position)
			assert.Equal(t, tt.wantPos, *occ[0].Position)
		})
	}
}

func TestJSONRule_MissingDocumentSkipped(t *testing.T) {
	rule := NewJSONRule("FN026002", project.FileSassJSON, "extends", Equals("@microsoft/sp-build-web/sass.json"))

	var findings []Finding
	require.NoError(t, rule.Visit(&project.Project{}, &findings))
	assert.Empty(t, findings)
}

func TestNewJSONRule_Resolution(t *testing.T) {
	rule := NewJSONRule("FN021007", project.FilePackageJSON, "scripts.start", Equals("gulp serve"))

	assert.Equal(t, core.ResolutionJSON, rule.ResolutionType())
	assert.Equal(t, "{\n  \"scripts\": {\n    \"start\": \"gulp serve\"\n  }\n}", rule.Resolution())
	assert.Equal(t, "scripts.start", rule.Title())

	seg := NewJSONRuleSegments("FN010001", project.FileYoRcJSON,
		[]string{"@microsoft/generator-sharepoint", "version"}, Equals("1.21.0"))
	assert.Equal(t, []string{"@microsoft/generator-sharepoint", "version"}, seg.Path)
	assert.Contains(t, seg.Resolution(), `"@microsoft/generator-sharepoint": {`)

	pred := NewJSONRule("X", project.FilePackageJSON, "name", Predicate(func(any, bool) bool { return true }))
	assert.Empty(t, pred.Resolution())
}
