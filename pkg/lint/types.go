package lint

import "github.com/leapstack-labs/spfxdoctor/pkg/core"

// Finding is one rule violation with every location it was observed at.
// Its ID always equals the ID of the rule that produced it.
type Finding struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Severity       core.Severity       `json:"severity"`
	ResolutionType core.ResolutionType `json:"resolutionType"`
	Supersedes     []string            `json:"supersedes,omitempty"`
	Occurrences    []Occurrence        `json:"occurrences"`
}

// Occurrence is a single file/position at which a finding was observed.
type Occurrence struct {
	File       string         `json:"file"`
	Resolution string         `json:"resolution"`
	Position   *core.Position `json:"position,omitempty"`
}

// FindIndex returns the index of the first finding with the given ID, or -1.
func FindIndex(findings []Finding, id string) int {
	for i, f := range findings {
		if f.ID == id {
			return i
		}
	}
	return -1
}
