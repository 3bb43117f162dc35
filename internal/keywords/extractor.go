// Package keywords turns free-text course titles into topic tags.
package keywords

import (
	"slices"

	"course-synergy/internal/textnorm"
)

// Tag is a normalized topic label. Weight is fixed by the rule that
// produced it: 1 for generic vocabulary, 2+ for specific topics.
type Tag struct {
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// Extractor applies an ordered, immutable rule table.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	rules []Rule
}

// New copies rules into a new Extractor. Rules with a nil pattern are ignored.
func New(rules []Rule) *Extractor {
	own := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Pattern == nil || r.Tag == "" {
			continue
		}
		if r.Weight < 1 {
			r.Weight = 1
		}
		r.Supersedes = slices.Clone(r.Supersedes)
		own = append(own, r)
	}
	return &Extractor{rules: own}
}

// NewDefault is New(DefaultRules()).
func NewDefault() *Extractor {
	return New(DefaultRules())
}

// Rules returns a copy of the rule table.
func (e *Extractor) Rules() []Rule {
	return slices.Clone(e.rules)
}

// Extract returns the tags of title in rule order, without duplicates.
// An empty title yields no tags.
func (e *Extractor) Extract(title string) []Tag {
	folded := textnorm.Fold(title)
	if folded == "" {
		return nil
	}

	for _, r := range e.rules {
		if r.Exclusive && r.Pattern.MatchString(folded) {
			return []Tag{{Label: r.Tag, Weight: r.Weight}}
		}
	}

	var found []Tag
	seen := map[string]bool{}
	superseded := map[string]bool{}
	for _, r := range e.rules {
		if r.Exclusive || !r.Pattern.MatchString(folded) {
			continue
		}
		for _, s := range r.Supersedes {
			superseded[s] = true
		}
		if seen[r.Tag] {
			continue
		}
		seen[r.Tag] = true
		found = append(found, Tag{Label: r.Tag, Weight: r.Weight})
	}

	if len(superseded) == 0 {
		return found
	}
	out := found[:0]
	for _, t := range found {
		if !superseded[t.Label] {
			out = append(out, t)
		}
	}
	return out
}

// Labels returns the labels of tags, in order.
func Labels(tags []Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Label)
	}
	return out
}
