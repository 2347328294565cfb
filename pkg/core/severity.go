package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates how important it is to act on a finding.
type Severity int

// Severity tiers for findings.
const (
	// SeverityRequired marks a finding that breaks the project for its version.
	SeverityRequired Severity = iota
	// SeverityRecommended marks a finding that should be fixed but doesn't break the build.
	SeverityRecommended
	// SeverityOptional marks housekeeping suggestions.
	SeverityOptional
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityRequired:
		return "Required"
	case SeverityRecommended:
		return "Recommended"
	case SeverityOptional:
		return "Optional"
	default:
		return "Unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityRecommended and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "required":
		return SeverityRequired, true
	case "recommended":
		return SeverityRecommended, true
	case "optional":
		return SeverityOptional, true
	default:
		return SeverityRecommended, false
	}
}

// MarshalJSON renders the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a severity name.
func (s *Severity) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, ok := ParseSeverity(name)
	if !ok {
		return fmt.Errorf("unknown severity %q", name)
	}
	*s = parsed
	return nil
}

// =============================================================================
// Resolution types
// =============================================================================

// ResolutionType tells consumers how a finding's resolution text should be applied.
type ResolutionType string

// Resolution kinds.
const (
	ResolutionNone ResolutionType = "none"
	ResolutionCmd  ResolutionType = "cmd"
	ResolutionJSON ResolutionType = "json"
)

// =============================================================================
// Position
// =============================================================================

// Position is a 1-based line/character location inside a source file.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// String formats the position as line:character.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a rule for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type RuleInfo struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Severity       Severity       `json:"severity"`
	ResolutionType ResolutionType `json:"resolution_type"`
	Resolution     string         `json:"resolution,omitempty"`
	File           string         `json:"file"`
	Supersedes     []string       `json:"supersedes,omitempty"`
}
