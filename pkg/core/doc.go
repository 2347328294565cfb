// Package core defines the shared language of spfxdoctor.
//
// This package contains:
//   - Severity tiers and resolution kinds shared by rules and reports
//   - Source positions used to point findings back into configuration files
//   - The RuleInfo DTO used by tooling to describe rules
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
