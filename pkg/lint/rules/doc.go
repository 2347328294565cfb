// Package rules provides the SPFx project rule catalog.
//
// Rules fall into three groups:
//   - generic: version independent structural checks, always active
//   - version profiles: dependency and configuration rules for one of the
//     supported SharePoint Framework versions
//   - FN017001: npm dedupe check, active only when npm is the package manager
//
// Resolve assembles the active RuleSet for a project version:
//
//	set, err := rules.Resolve("1.21.0", pkgmgr.NPM)
//	if errors.Is(err, rules.ErrUnsupportedVersion) {
//		...
//	}
package rules
