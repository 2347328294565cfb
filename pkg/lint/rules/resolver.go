package rules

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
)

var (
	// ErrVersionNotDetected is returned when the project version is unknown.
	ErrVersionNotDetected = errors.New("unable to determine the version of the current SharePoint Framework project")

	// ErrUnsupportedVersion is returned for versions outside the catalog.
	ErrUnsupportedVersion = errors.New("unsupported SharePoint Framework version")

	// ErrRuleSetLoad is matched by every failure to build a version rule set.
	ErrRuleSetLoad = errors.New("failed to load rule set")
)

// LoadError carries the message of a failed version rule set load.
type LoadError struct {
	Version string
	Err     error
}

func (e *LoadError) Error() string { return e.Err.Error() }

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRuleSetLoad) match.
func (e *LoadError) Is(target error) bool { return target == ErrRuleSetLoad }

// Factory builds the version specific rules of one SPFx version.
type Factory func() ([]lint.Rule, error)

// Catalog maps supported versions to their rule factories.
type Catalog struct {
	versions  []string
	factories map[string]Factory
	generic   func() []lint.Rule
}

// NewCatalog creates a catalog from an ordered version list and a factory
// table. A listed version without a factory fails to load.
func NewCatalog(versions []string, factories map[string]Factory) *Catalog {
	return &Catalog{
		versions:  append([]string(nil), versions...),
		factories: factories,
		generic:   Generic,
	}
}

var defaultCatalog = newDefaultCatalog()

func newDefaultCatalog() *Catalog {
	versions := make([]string, 0, len(versionProfiles))
	factories := make(map[string]Factory, len(versionProfiles))
	for _, vp := range versionProfiles {
		version, pr := vp.version, vp.profile
		versions = append(versions, version)
		factories[version] = func() ([]lint.Rule, error) {
			return pr.rules(version), nil
		}
	}
	return NewCatalog(versions, factories)
}

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }

// Versions returns the supported versions in release order.
func (c *Catalog) Versions() []string {
	return append([]string(nil), c.versions...)
}

// Supported reports whether version is in the catalog. Matching is exact.
func (c *Catalog) Supported(version string) bool {
	for _, v := range c.versions {
		if v == version {
			return true
		}
	}
	return false
}

// Load returns the version specific rules of a supported version.
func (c *Catalog) Load(version string) ([]lint.Rule, error) {
	factory, ok := c.factories[version]
	if !ok {
		return nil, &LoadError{Version: version, Err: fmt.Errorf("no rule set found for version %s", version)}
	}
	rules, err := factory()
	if err != nil {
		return nil, &LoadError{Version: version, Err: err}
	}
	return rules, nil
}

// Resolve returns the active rule set for a project version: generic rules,
// then the version rules, then the npm dedupe rule when m is npm.
func (c *Catalog) Resolve(version string, m pkgmgr.Manager) (*lint.RuleSet, error) {
	if version == "" {
		return nil, ErrVersionNotDetected
	}
	if !c.Supported(version) {
		return nil, fmt.Errorf("%w: v%s", ErrUnsupportedVersion, version)
	}

	set, err := lint.NewRuleSet(c.generic()...)
	if err != nil {
		return nil, &LoadError{Version: version, Err: err}
	}

	versionRules, err := c.Load(version)
	if err != nil {
		return nil, err
	}
	if err := set.Add(versionRules...); err != nil {
		return nil, &LoadError{Version: version, Err: err}
	}

	if m == pkgmgr.NPM {
		if err := set.Add(NpmDedupe()); err != nil {
			return nil, &LoadError{Version: version, Err: err}
		}
	}
	return set, nil
}

// Latest returns the newest version of the catalog.
func (c *Catalog) Latest() string {
	if len(c.versions) == 0 {
		return ""
	}
	return c.versions[len(c.versions)-1]
}

// SupportedVersions returns the versions of the built-in catalog.
func SupportedVersions() []string { return defaultCatalog.Versions() }

// LatestVersion returns the newest version of the built-in catalog.
func LatestVersion() string { return defaultCatalog.Latest() }

// Load returns the version rules of the built-in catalog.
func Load(version string) ([]lint.Rule, error) { return defaultCatalog.Load(version) }

// Resolve returns the active rule set from the built-in catalog.
func Resolve(version string, m pkgmgr.Manager) (*lint.RuleSet, error) {
	return defaultCatalog.Resolve(version, m)
}
