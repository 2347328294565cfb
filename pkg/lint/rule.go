package lint

import (
	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// Rule is the interface every project rule implements.
//
// Visit inspects the project snapshot and appends at most one Finding to
// findings when the project violates the rule. Rules never modify the project.
// A returned error aborts the whole run.
type Rule interface {
	// ID returns the stable rule code, e.g. "FN001001"
	ID() string

	// Title returns the short title, usually the package or property concerned
	Title() string

	// Description returns a human-readable description
	Description() string

	// Severity returns the severity tier of findings produced by this rule
	Severity() core.Severity

	// Resolution returns the remediation: a package operation or a JSON snippet
	Resolution() string

	// ResolutionType tells how Resolution should be applied
	ResolutionType() core.ResolutionType

	// File returns the project file this rule concerns
	File() string

	// Supersedes lists rule codes made redundant when this rule fires
	Supersedes() []string

	Visit(p *project.Project, findings *[]Finding) error
}

// RuleDef is the descriptive metadata carried by every rule.
type RuleDef struct {
	ID             string
	Title          string
	Description    string
	Severity       core.Severity
	Resolution     string
	ResolutionType core.ResolutionType
	File           string
	Supersedes     []string
}

// Base implements the descriptive half of Rule on top of a RuleDef.
// Concrete rules embed it and add Visit.
type Base struct {
	Def RuleDef
}

func (b *Base) ID() string                          { return b.Def.ID }
func (b *Base) Title() string                       { return b.Def.Title }
func (b *Base) Description() string                 { return b.Def.Description }
func (b *Base) Severity() core.Severity             { return b.Def.Severity }
func (b *Base) Resolution() string                  { return b.Def.Resolution }
func (b *Base) ResolutionType() core.ResolutionType { return b.Def.ResolutionType }
func (b *Base) File() string                        { return b.Def.File }
func (b *Base) Supersedes() []string                { return b.Def.Supersedes }

// Occurrence builds an occurrence in the rule's file with the rule's resolution.
func (b *Base) Occurrence(pos *core.Position) Occurrence {
	return Occurrence{
		File:       b.Def.File,
		Resolution: b.Def.Resolution,
		Position:   pos,
	}
}

// Report appends a finding for this rule. Nothing is appended without occurrences.
func (b *Base) Report(findings *[]Finding, occurrences ...Occurrence) {
	if len(occurrences) == 0 {
		return
	}
	*findings = append(*findings, Finding{
		ID:             b.Def.ID,
		Title:          b.Def.Title,
		Description:    b.Def.Description,
		Severity:       b.Def.Severity,
		ResolutionType: b.Def.ResolutionType,
		Supersedes:     b.Def.Supersedes,
		Occurrences:    occurrences,
	})
}

// CheckFunc inspects a project and returns the occurrences of a violation.
type CheckFunc func(r *CheckRule, p *project.Project) ([]Occurrence, error)

// CheckRule is a data-driven rule for checks that don't fit the dependency or
// JSON property shapes.
type CheckRule struct {
	Base
	Check CheckFunc
}

// NewCheckRule creates a rule from metadata and a check function.
func NewCheckRule(def RuleDef, check CheckFunc) *CheckRule {
	return &CheckRule{Base: Base{Def: def}, Check: check}
}

// Visit implements Rule.
func (r *CheckRule) Visit(p *project.Project, findings *[]Finding) error {
	occ, err := r.Check(r, p)
	if err != nil {
		return err
	}
	r.Report(findings, occ...)
	return nil
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	return core.RuleInfo{
		ID:             r.ID(),
		Title:          r.Title(),
		Description:    r.Description(),
		Severity:       r.Severity(),
		ResolutionType: r.ResolutionType(),
		Resolution:     r.Resolution(),
		File:           r.File(),
		Supersedes:     r.Supersedes(),
	}
}
