package lint

import (
	"fmt"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
)

// RuleSet is an ordered collection of rules with unique IDs.
// Rules run in insertion order, which also drives supersession.
type RuleSet struct {
	rules []Rule
	index map[string]int // keyed by ID
}

// NewRuleSet creates a rule set from rules, rejecting duplicate IDs.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	s := &RuleSet{index: make(map[string]int)}
	if err := s.Add(rules...); err != nil {
		return nil, err
	}
	return s, nil
}

// Add appends rules to the set.
func (s *RuleSet) Add(rules ...Rule) error {
	for _, r := range rules {
		if _, exists := s.index[r.ID()]; exists {
			return fmt.Errorf("duplicate rule %s", r.ID())
		}
		s.index[r.ID()] = len(s.rules)
		s.rules = append(s.rules, r)
	}
	return nil
}

// Rules returns the rules in evaluation order.
func (s *RuleSet) Rules() []Rule {
	if s == nil {
		return nil
	}
	return append([]Rule(nil), s.rules...)
}

// Get returns a rule by its ID.
func (s *RuleSet) Get(id string) (Rule, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.rules[i], true
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Info returns metadata of every rule in evaluation order.
func (s *RuleSet) Info() []core.RuleInfo {
	if s == nil {
		return nil
	}
	infos := make([]core.RuleInfo, 0, len(s.rules))
	for _, r := range s.rules {
		infos = append(infos, GetRuleInfo(r))
	}
	return infos
}
