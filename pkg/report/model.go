// Package report turns rule findings into reports: it resolves superseded
// findings, flattens occurrences, translates package operations for the
// selected package manager and renders the result.
package report

import (
	"github.com/leapstack-labs/spfxdoctor/pkg/core"
)

// NoIssuesMessage is printed when a project has no findings.
const NoIssuesMessage = "✅ spfxdoctor has found no issues in your project"

// NoCommandsMessage is printed by the text report when every finding is
// resolved by editing a configuration file.
const NoCommandsMessage = "No commands to run. Update the configuration files listed in the md report."

// FindingToReport is one occurrence of a finding, flattened for rendering.
type FindingToReport struct {
	Description    string              `json:"description"`
	ID             string              `json:"id"`
	File           string              `json:"file"`
	Position       *core.Position      `json:"position,omitempty"`
	Resolution     string              `json:"resolution"`
	ResolutionType core.ResolutionType `json:"resolutionType"`
	Severity       core.Severity       `json:"severity"`
	Title          string              `json:"title"`
}

// Modification is a structured change to one configuration file.
type Modification struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	Modification any    `json:"modification"`
}

// Data aggregates the remediation steps of a report.
type Data struct {
	// PackageManagerCommands holds one consolidated command per package
	// operation, followed by the npm dedupe step when present.
	PackageManagerCommands []string `json:"packageManagerCommands"`

	// CommandsToExecute holds command resolutions that are not package
	// operations.
	CommandsToExecute []string `json:"commandsToExecute"`

	ModificationPerFile     map[string][]Modification `json:"modificationPerFile"`
	ModificationTypePerFile map[string]string         `json:"modificationTypePerFile"`
}

// Script returns every command to run, in order.
func (d Data) Script() []string {
	script := make([]string, 0, len(d.PackageManagerCommands)+len(d.CommandsToExecute))
	script = append(script, d.PackageManagerCommands...)
	return append(script, d.CommandsToExecute...)
}
