package lint

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// DependencyRule checks that package.json references a package at a
// required version or within a required range.
type DependencyRule struct {
	Base

	Package  string
	Version  string
	Dev      bool // devDependencies instead of dependencies
	Optional bool // absence is not a violation
	Add      bool // absence is a violation unless Optional
}

// NewDependencyRule creates a rule requiring pkg at version.
//
// A strict semantic version (e.g. "1.21.0") must be declared verbatim; any
// other value is treated as a range the declared version has to satisfy.
func NewDependencyRule(id, pkg, version string, dev bool, opts ...Option) *DependencyRule {
	o := buildOptions(opts)

	verb := pkgmgr.Install
	if dev {
		verb = pkgmgr.InstallDev
	}

	def := RuleDef{
		ID:             id,
		Title:          pkg,
		Description:    fmt.Sprintf("Install supported version of the %s package", pkg),
		Severity:       core.SeverityRequired,
		Resolution:     fmt.Sprintf("%s %s", verb, PackageSpec(pkg, version)),
		ResolutionType: core.ResolutionCmd,
		File:           project.FilePackageJSON,
	}
	o.apply(&def)

	return &DependencyRule{
		Base:     Base{Def: def},
		Package:  pkg,
		Version:  version,
		Dev:      dev,
		Optional: o.optional,
		Add:      !o.noAdd,
	}
}

// Visit implements Rule.
func (r *DependencyRule) Visit(p *project.Project, findings *[]Finding) error {
	declared, ok := p.Dependency(r.Package, r.Dev)
	if !ok {
		if !r.Optional && r.Add {
			r.Report(findings, r.Occurrence(r.position(p)))
		}
		return nil
	}

	satisfied, err := r.Satisfied(declared)
	if err != nil {
		return err
	}
	if !satisfied {
		r.Report(findings, r.Occurrence(r.position(p)))
	}
	return nil
}

// Satisfied reports whether a declared version complies with the rule.
// An error means the rule itself carries an invalid range.
func (r *DependencyRule) Satisfied(declared string) (bool, error) {
	if _, err := semver.StrictNewVersion(r.Version); err == nil {
		return strings.TrimSpace(declared) == r.Version, nil
	}

	c, err := semver.NewConstraint(r.Version)
	if err != nil {
		return false, fmt.Errorf("rule %s: invalid version range %q: %w", r.ID(), r.Version, err)
	}

	v, err := MinVersion(declared)
	if err != nil {
		return false, nil
	}
	return c.Check(v), nil
}

func (r *DependencyRule) position(p *project.Project) *core.Position {
	section := "dependencies"
	if r.Dev {
		section = "devDependencies"
	}
	pos := p.PackageJSON.PositionOf(section, r.Package)
	return &pos
}

// MinVersion returns the lowest version matched by a declared npm version,
// e.g. 16.8.5 for "^16.8.5" and 15.0.0 for "15.x".
func MinVersion(declared string) (*semver.Version, error) {
	s := strings.TrimSpace(declared)
	if i := strings.IndexAny(s, " |"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimLeft(s, "^~=>v")

	segs := strings.Split(s, ".")
	for i, seg := range segs {
		if seg == "x" || seg == "X" || seg == "*" {
			segs[i] = "0"
		}
	}
	return semver.NewVersion(strings.Join(segs, "."))
}

// PackageSpec formats pkg@version for a command line, quoting it when the
// version contains characters the shell would interpret.
func PackageSpec(pkg, version string) string {
	spec := pkg + "@" + version
	if strings.ContainsAny(version, " <>|") {
		return `"` + spec + `"`
	}
	return spec
}
