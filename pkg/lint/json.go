package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// Expectation decides whether the value found at a property path complies.
// present is false when the path does not exist.
type Expectation interface {
	Satisfied(actual any, present bool) bool

	// Snippet returns the value suggested in the resolution, or nil when
	// the expectation cannot be expressed as a value.
	Snippet() any
}

type equals struct{ want any }

// Equals expects the property to hold exactly want, type included.
func Equals(want any) Expectation { return equals{want: want} }

func (e equals) Satisfied(actual any, present bool) bool {
	return present && reflect.DeepEqual(normalize(e.want), normalize(actual))
}

func (e equals) Snippet() any { return e.want }

type matches struct{ want any }

// Matches expects the property to contain the structural snippet want:
// objects must carry every key of want with matching values, anything else
// must be equal.
func Matches(want any) Expectation { return matches{want: want} }

func (m matches) Satisfied(actual any, present bool) bool {
	return present && subset(normalize(m.want), normalize(actual))
}

func (m matches) Snippet() any { return m.want }

type predicate struct {
	fn func(actual any, present bool) bool
}

// Predicate expects fn to accept the property value. Rules using it should
// pass WithResolution since no snippet can be derived.
func Predicate(fn func(actual any, present bool) bool) Expectation {
	return predicate{fn: fn}
}

func (p predicate) Satisfied(actual any, present bool) bool { return p.fn(actual, present) }

func (p predicate) Snippet() any { return nil }

// JSONRule checks a property of one JSON configuration document.
// Projects without the document are not checked.
type JSONRule struct {
	Base

	Path   []string
	Expect Expectation
}

// NewJSONRule creates a rule checking the dotted property path of file.
// Path segments are split on dots; use NewJSONRuleSegments for keys that
// contain dots themselves.
func NewJSONRule(id, file, path string, expect Expectation, opts ...Option) *JSONRule {
	return NewJSONRuleSegments(id, file, project.SplitPath(path), expect, opts...)
}

// NewJSONRuleSegments creates a rule checking the property at segments of file.
func NewJSONRuleSegments(id, file string, segments []string, expect Expectation, opts ...Option) *JSONRule {
	o := buildOptions(opts)
	dotted := strings.Join(segments, ".")

	def := RuleDef{
		ID:             id,
		Title:          dotted,
		Description:    fmt.Sprintf("Update %s in %s", dotted, strings.TrimPrefix(file, "./")),
		Severity:       core.SeverityRequired,
		Resolution:     resolutionSnippet(segments, expect.Snippet()),
		ResolutionType: core.ResolutionJSON,
		File:           file,
	}
	o.apply(&def)

	return &JSONRule{
		Base:   Base{Def: def},
		Path:   segments,
		Expect: expect,
	}
}

// Visit implements Rule.
func (r *JSONRule) Visit(p *project.Project, findings *[]Finding) error {
	doc := p.Document(r.File())
	if doc == nil {
		return nil
	}

	actual, present := doc.GetSegments(r.Path...)
	if r.Expect.Satisfied(actual, present) {
		return nil
	}

	pos := doc.PositionOf(r.Path...)
	r.Report(findings, r.Occurrence(&pos))
	return nil
}

// resolutionSnippet nests value under the property path, e.g.
// {"scripts": {"start": "..."}} for scripts.start.
func resolutionSnippet(segments []string, value any) string {
	if value == nil {
		return ""
	}
	for i := len(segments) - 1; i >= 0; i-- {
		value = map[string]any{segments[i]: value}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// normalize maps Go values and decoded document values onto the same
// representation (JSON numbers become float64, maps become map[string]any).
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func subset(want, actual any) bool {
	wm, ok := want.(map[string]any)
	if !ok {
		return reflect.DeepEqual(want, actual)
	}
	am, ok := actual.(map[string]any)
	if !ok {
		return false
	}
	for k, wv := range wm {
		av, ok := am[k]
		if !ok || !subset(wv, av) {
			return false
		}
	}
	return true
}
