package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

var (
	// ErrUnsupportedTarget is returned for upgrade targets without a step.
	ErrUnsupportedTarget = errors.New("unsupported upgrade target version")

	// ErrUpToDate is returned when the project already uses the target version.
	ErrUpToDate = errors.New("project doesn't need to be upgraded")

	// ErrDowngrade is returned when the target is older than the project.
	ErrDowngrade = errors.New("cannot downgrade a project")
)

// UpgradeCatalog holds the upgrade steps: for each target release, the
// rules that move a project of the previous release onto it. Projects
// upgrade from any version of the source catalog.
type UpgradeCatalog struct {
	source *Catalog
	steps  *Catalog
}

// NewUpgradeCatalog creates an upgrade catalog from an ordered list of
// target versions and their step factories.
func NewUpgradeCatalog(source *Catalog, targets []string, factories map[string]Factory) *UpgradeCatalog {
	return &UpgradeCatalog{source: source, steps: NewCatalog(targets, factories)}
}

var defaultUpgrades = NewUpgradeCatalog(defaultCatalog,
	[]string{"1.21.0", "1.21.1"},
	map[string]Factory{
		"1.21.0": func() ([]lint.Rule, error) { return upgradeTo1_21("1.21.0"), nil },
		"1.21.1": func() ([]lint.Rule, error) { return upgradeTo1_21("1.21.1"), nil },
	},
)

// DefaultUpgrades returns the built-in upgrade catalog.
func DefaultUpgrades() *UpgradeCatalog { return defaultUpgrades }

// Targets returns the versions a project can be upgraded to, oldest first.
func (u *UpgradeCatalog) Targets() []string { return u.steps.Versions() }

// Latest returns the newest upgrade target.
func (u *UpgradeCatalog) Latest() string { return u.steps.Latest() }

// Resolve returns the rules moving a project from version from to version
// to: the rules of every step newer than from up to and including to. A
// rule of a later step replaces the rule with the same id of an earlier
// step. The npm dedupe rule comes last when m is npm.
func (u *UpgradeCatalog) Resolve(from, to string, m pkgmgr.Manager) (*lint.RuleSet, error) {
	if from == "" {
		return nil, ErrVersionNotDetected
	}
	if !u.source.Supported(from) {
		return nil, fmt.Errorf("%w: v%s", ErrUnsupportedVersion, from)
	}
	if !u.steps.Supported(to) {
		return nil, fmt.Errorf("%w: v%s (supported: %s)", ErrUnsupportedTarget, to, strings.Join(u.Targets(), ", "))
	}

	fromVer, err := semver.StrictNewVersion(from)
	if err != nil {
		return nil, fmt.Errorf("%w: v%s", ErrUnsupportedVersion, from)
	}
	toVer, err := semver.StrictNewVersion(to)
	if err != nil {
		return nil, fmt.Errorf("%w: v%s", ErrUnsupportedTarget, to)
	}
	switch fromVer.Compare(toVer) {
	case 0:
		return nil, fmt.Errorf("%w: already on v%s", ErrUpToDate, to)
	case 1:
		return nil, fmt.Errorf("%w from v%s to v%s", ErrDowngrade, from, to)
	}

	var merged []lint.Rule
	index := make(map[string]int)
	for _, step := range u.steps.Versions() {
		stepVer, err := semver.StrictNewVersion(step)
		if err != nil {
			return nil, &LoadError{Version: step, Err: fmt.Errorf("invalid upgrade step %q: %w", step, err)}
		}
		if !stepVer.GreaterThan(fromVer) || stepVer.GreaterThan(toVer) {
			continue
		}

		stepRules, err := u.steps.Load(step)
		if err != nil {
			return nil, err
		}
		for _, r := range stepRules {
			if i, ok := index[r.ID()]; ok {
				merged[i] = r
				continue
			}
			index[r.ID()] = len(merged)
			merged = append(merged, r)
		}
	}

	set, err := lint.NewRuleSet(merged...)
	if err != nil {
		return nil, &LoadError{Version: to, Err: err}
	}
	if m == pkgmgr.NPM {
		if err := set.Add(NpmDedupe()); err != nil {
			return nil, &LoadError{Version: to, Err: err}
		}
	}
	return set, nil
}

// optionalSPFxPackages are updated by the 1.21 upgrade steps only when the
// project references them.
var optionalSPFxPackages = []struct {
	id  string
	pkg string
}{
	{"FN001002", "@microsoft/sp-lodash-subset"},
	{"FN001003", "@microsoft/sp-office-ui-fabric-core"},
	{"FN001004", "@microsoft/sp-webpart-base"},
	{"FN001011", "@microsoft/sp-dialog"},
	{"FN001012", "@microsoft/sp-application-base"},
	{"FN001014", "@microsoft/sp-listview-extensibility"},
	{"FN001021", "@microsoft/sp-property-pane"},
	{"FN001023", "@microsoft/sp-component-base"},
	{"FN001024", "@microsoft/sp-diagnostics"},
	{"FN001025", "@microsoft/sp-dynamic-data"},
	{"FN001026", "@microsoft/sp-extension-base"},
	{"FN001027", "@microsoft/sp-http"},
	{"FN001028", "@microsoft/sp-list-subscription"},
	{"FN001029", "@microsoft/sp-loader"},
	{"FN001030", "@microsoft/sp-module-interfaces"},
	{"FN001031", "@microsoft/sp-odata-types"},
	{"FN001032", "@microsoft/sp-page-context"},
	{"FN001013", "@microsoft/decorators"},
	{"FN001034", "@microsoft/sp-adaptive-card-extension-base"},
}

// upgradeTo1_21 builds the step onto a 1.21 release.
func upgradeTo1_21(version string) []lint.Rule {
	rules := []lint.Rule{
		lint.NewDependencyRule("FN001001", coreLibrary, version, false),
	}
	for _, p := range optionalSPFxPackages {
		rules = append(rules, lint.NewDependencyRule(p.id, p.pkg, version, false, lint.Optional()))
	}

	const rushStack = "@microsoft/rush-stack-compiler-5.3"
	return append(rules,
		lint.NewDependencyRule("FN002001", "@microsoft/sp-build-web", version, true),
		lint.NewDependencyRule("FN002002", "@microsoft/sp-module-interfaces", version, true),
		lint.NewDependencyRule("FN002024", "eslint", "8.57.1", true),
		lint.NewDependencyRule("FN002022", "@microsoft/eslint-plugin-spfx", version, true),
		lint.NewDependencyRule("FN002023", "@microsoft/eslint-config-spfx", version, true),
		lint.NewDependencyRule("FN002026", "typescript", "5.3.3", true),
		lint.NewDependencyRule("FN002029", rushStack, "0.1.0", true),
		yoRcVersion(version),
		lint.NewJSONRule("FN012017", project.FileTsConfigJSON, "extends",
			lint.Equals("./node_modules/"+rushStack+"/includes/tsconfig-web.json"),
			lint.WithDescription("Extend the TypeScript configuration of "+rushStack)),
		lint.NewJSONRule("FN021003", project.FilePackageJSON, "engines.node",
			lint.Equals(">=22.14.0 < 23.0.0"),
			lint.WithDescription("Declare the Node.js versions supported by the project")),
	)
}

// RushstackHeft requires the Heft build orchestrator at version.
func RushstackHeft(version string) lint.Rule {
	return lint.NewDependencyRule("FN002031", "@rushstack/heft", version, true)
}

// CSSLoader requires the webpack css-loader at version.
func CSSLoader(version string) lint.Rule {
	return lint.NewDependencyRule("FN002033", "css-loader", version, true)
}

// ScriptsStart requires package.json to start the project with script.
func ScriptsStart(script string) lint.Rule {
	return lint.NewJSONRule("FN021007", project.FilePackageJSON, "scripts.start", lint.Equals(script),
		lint.WithTitle("package.json scripts.start"),
		lint.WithDescription("Update package.json scripts.start property"),
		lint.WithSeverity(core.SeverityRequired))
}

// SassExtends requires config/sass.json to extend base. Projects without
// config/sass.json are not checked.
func SassExtends(base string) lint.Rule {
	return lint.NewJSONRule("FN026002", project.FileSassJSON, "extends", lint.Equals(base),
		lint.WithTitle("sass.json extends"),
		lint.WithDescription("Update sass.json extends property"))
}
