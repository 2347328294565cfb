package lint

import (
	"fmt"

	"github.com/leapstack-labs/spfxdoctor/pkg/project"
)

// Analyzer runs rules against a project snapshot.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze visits every enabled rule in order and returns the findings.
// The first rule error aborts the run; no partial result is returned.
func (a *Analyzer) Analyze(p *project.Project, rules []Rule) ([]Finding, error) {
	findings := make([]Finding, 0)

	for _, rule := range rules {
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID()) {
			continue
		}

		start := len(findings)
		if err := rule.Visit(p, &findings); err != nil {
			return nil, fmt.Errorf("rule %s failed: %w", rule.ID(), err)
		}

		// Apply severity overrides
		for i := start; i < len(findings); i++ {
			findings[i].Severity = a.config.GetSeverity(rule.ID(), findings[i].Severity)
		}
	}

	return findings, nil
}
