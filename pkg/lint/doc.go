// Package lint provides the rule abstraction used to validate SPFx projects.
//
// # Rules
//
// A Rule inspects a read-only project.Project and appends at most one Finding
// per visit. Two reusable variants cover most of the catalog:
//
//   - DependencyRule: a package must be referenced in package.json at an exact
//     version or within a semantic version range
//   - JSONRule: a property of a JSON configuration file must equal, contain or
//     satisfy an expected value
//
// Checks that fit neither shape use CheckRule with a CheckFunc.
//
// # Findings
//
// Each Finding copies the rule metadata and carries one or more Occurrences,
// a file and optional position with the concrete resolution for that spot.
// Resolutions of command rules start with an abstract verb (install,
// installDev, uninstall, uninstallDev) that is later translated for the
// selected package manager.
//
// # Running rules
//
// Rules are grouped in an ordered RuleSet and evaluated by an Analyzer:
//
//	set, _ := lint.NewRuleSet(rules...)
//	findings, err := lint.NewAnalyzer(lint.NewConfig().Disable("FN017001")).
//		Analyze(p, set.Rules())
//
// The first rule error aborts the run.
package lint
