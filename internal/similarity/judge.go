// Package similarity decides whether two course titles cover the same topic.
package similarity

import "course-synergy/internal/keywords"

// MinSpecificWeight is the lowest tag weight that can drive a strict match.
const MinSpecificWeight = 2

// Strictness selects between the permissive boolean check and the weighted
// scoring check.
type Strictness int

const (
	// Permissive: any shared tag is enough.
	Permissive Strictness = iota + 1
	// Strict: shared tags are weighted and at least one must be specific.
	Strict
)

func (s Strictness) String() string {
	switch s {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	}
	return "unknown"
}

// Score is the weighted overlap between two titles.
type Score struct {
	Value      int
	SharedTags []keywords.Tag
}

// Judge compares titles through a keyword extractor.
type Judge struct {
	extractor *keywords.Extractor
}

func New(e *keywords.Extractor) *Judge {
	if e == nil {
		e = keywords.NewDefault()
	}
	return &Judge{extractor: e}
}

// Extractor exposes the underlying extractor.
func (j *Judge) Extractor() *keywords.Extractor {
	return j.extractor
}

// AreSimilar reports whether the titles share at least one tag, whatever its weight.
func (j *Judge) AreSimilar(titleA, titleB string) bool {
	return len(j.shared(titleA, titleB)) > 0
}

// MatchScore sums the weights of the shared tags. The score is 0 (and no
// tags are returned) unless one shared tag has weight >= MinSpecificWeight,
// so generic vocabulary such as "PRL" alone never pairs two titles.
func (j *Judge) MatchScore(titleA, titleB string) Score {
	shared := j.shared(titleA, titleB)

	total := 0
	specific := false
	for _, t := range shared {
		total += t.Weight
		if t.Weight >= MinSpecificWeight {
			specific = true
		}
	}
	if !specific {
		return Score{}
	}
	return Score{Value: total, SharedTags: shared}
}

// Similar applies the variant selected by s. The returned score always
// carries the shared tags; its Value is only meaningful in Strict mode.
func (j *Judge) Similar(titleA, titleB string, s Strictness) (bool, Score) {
	if s == Strict {
		sc := j.MatchScore(titleA, titleB)
		return sc.Value > 0, sc
	}
	shared := j.shared(titleA, titleB)
	total := 0
	for _, t := range shared {
		total += t.Weight
	}
	return len(shared) > 0, Score{Value: total, SharedTags: shared}
}

// shared returns the tags of titleA that titleB also carries, in titleA's order.
func (j *Judge) shared(titleA, titleB string) []keywords.Tag {
	tagsA := j.extractor.Extract(titleA)
	if len(tagsA) == 0 {
		return nil
	}
	tagsB := j.extractor.Extract(titleB)
	if len(tagsB) == 0 {
		return nil
	}

	inB := make(map[string]bool, len(tagsB))
	for _, t := range tagsB {
		inB[t.Label] = true
	}
	var out []keywords.Tag
	for _, t := range tagsA {
		if inB[t.Label] {
			out = append(out, t)
		}
	}
	return out
}
