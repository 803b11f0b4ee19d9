package filter

import (
	"fmt"
	"sort"
)

// Chain evaluates rules in ascending priority order with first-match-wins
// semantics. Exactly one rule fires per request: the first whose matcher
// returns true, or the implicit default-allow when none does.
type Chain struct {
	rules []Rule
}

func NewChain(rules []Rule) (*Chain, error) {
	seen := make(map[int]string, len(rules))
	for _, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("filter rule name is required")
		}
		if rule.Match == nil {
			return nil, fmt.Errorf("filter rule %s: matcher is required", rule.Name)
		}
		if rule.Action != ActionAllow && rule.Action != ActionBlock {
			return nil, fmt.Errorf("filter rule %s: invalid action %q", rule.Name, rule.Action)
		}
		if other, dup := seen[rule.Priority]; dup {
			return nil, fmt.Errorf("filter rules %s and %s share priority %d", other, rule.Name, rule.Priority)
		}
		seen[rule.Priority] = rule.Name
	}

	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	return &Chain{rules: ordered}, nil
}

// Evaluate runs the chain against one request view.
func (c *Chain) Evaluate(view *RequestView) Decision {
	for _, rule := range c.rules {
		if rule.Match(view) {
			return Decision{Allowed: rule.Action == ActionAllow, Rule: rule.Name}
		}
	}
	return Decision{Allowed: true}
}
