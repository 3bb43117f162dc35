// Package matcher pairs courses across the two providers.
package matcher

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"course-synergy/internal/domain"
	"course-synergy/internal/keywords"
	"course-synergy/internal/similarity"
	"course-synergy/internal/textnorm"
)

// Mode selects the assignment strategy.
type Mode string

const (
	// ModeGreedy walks records by start date and gives each one the closest
	// admissible counterpart still free. Used for whole-dataset scans.
	ModeGreedy Mode = "greedy"
	// ModeGlobal scores every admissible pair and assigns them best-first
	// across the whole corpus. Used to build the audit dictionary.
	ModeGlobal Mode = "global"
)

// ParseMode accepts "greedy"/"pairwise" and "global"/"best".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "greedy", "pairwise":
		return ModeGreedy, nil
	case "global", "best":
		return ModeGlobal, nil
	}
	return "", fmt.Errorf("matcher: unknown mode %q", s)
}

const (
	DefaultMaxDateDistanceDays = 15
	greedyBaseScore            = 100
)

// DefaultUnknownLocations are the placeholders loaders use when a location
// could not be resolved. Records carrying them are never matched.
var DefaultUnknownLocations = []string{"Unknown", "Desconocida"}

type Options struct {
	Mode Mode

	// Strictness of title similarity. Zero picks the mode default:
	// Permissive for ModeGreedy, Strict for ModeGlobal.
	Strictness similarity.Strictness

	// MaxDateDistanceDays bounds |startA - startB| in days. <= 0 means 15.
	MaxDateDistanceDays int

	// UnknownLocations overrides DefaultUnknownLocations when non-nil.
	UnknownLocations []string

	// IgnoreSchedule pairs on titles alone: no eligibility, location or date
	// checks. The audit dictionary uses it on title-only records.
	IgnoreSchedule bool
}

// Pair is a candidate synergy: A comes from domain.SourceA, B from domain.SourceB.
// AIndex and BIndex are the positions of A and B in the slices given to Match.
type Pair struct {
	A, B             domain.Course
	AIndex, BIndex   int
	DateDistanceDays int
	Score            int
	SharedTags       []keywords.Tag
}

// Result holds every input record exactly once: inside one pair or in Unmatched.
type Result struct {
	Pairs     []Pair
	Unmatched []domain.Course
}

type Matcher struct {
	judge   *similarity.Judge
	opts    Options
	unknown map[string]bool
}

func New(judge *similarity.Judge, opts Options) *Matcher {
	if judge == nil {
		judge = similarity.New(nil)
	}
	if opts.Mode == "" {
		opts.Mode = ModeGreedy
	}
	if opts.Strictness == 0 {
		opts.Strictness = similarity.Permissive
		if opts.Mode == ModeGlobal {
			opts.Strictness = similarity.Strict
		}
	}
	if opts.MaxDateDistanceDays <= 0 {
		opts.MaxDateDistanceDays = DefaultMaxDateDistanceDays
	}
	if opts.UnknownLocations == nil {
		opts.UnknownLocations = DefaultUnknownLocations
	}

	unknown := make(map[string]bool, len(opts.UnknownLocations))
	for _, l := range opts.UnknownLocations {
		unknown[textnorm.Fold(l)] = true
	}
	return &Matcher{judge: judge, opts: opts, unknown: unknown}
}

// Options returns the effective options after defaults were applied.
func (m *Matcher) Options() Options {
	return m.opts
}

// Eligible reports whether c can take part in matching: it needs a start
// date and a resolved location.
func (m *Matcher) Eligible(c domain.Course) bool {
	if m.opts.IgnoreSchedule {
		return true
	}
	loc := textnorm.Fold(c.Location)
	return loc != "" && !m.unknown[loc] && c.HasStartDate()
}

// Match pairs coursesA with coursesB under the configured mode.
// Inputs are not modified.
func (m *Matcher) Match(coursesA, coursesB []domain.Course) Result {
	pool := make([]*candidate, 0, len(coursesA)+len(coursesB))
	for i, c := range coursesA {
		pool = append(pool, m.newCandidate(c, domain.SourceA, i))
	}
	for i, c := range coursesB {
		pool = append(pool, m.newCandidate(c, domain.SourceB, i))
	}

	var pairs []Pair
	switch m.opts.Mode {
	case ModeGlobal:
		pairs = m.matchGlobal(pool)
	default:
		pairs = m.matchGreedy(pool)
	}

	res := Result{Pairs: pairs}
	for _, c := range pool {
		if !c.used {
			res.Unmatched = append(res.Unmatched, c.course)
		}
	}
	return res
}

type candidate struct {
	course   domain.Course
	side     domain.Source
	index    int
	location string
	day      time.Time
	eligible bool
	used     bool
}

func (m *Matcher) newCandidate(c domain.Course, side domain.Source, index int) *candidate {
	return &candidate{
		course:   c,
		side:     side,
		index:    index,
		location: textnorm.Fold(c.Location),
		day:      civilDay(c.StartDate),
		eligible: m.Eligible(c),
	}
}

// admissible applies the location, date and title gates to x and y.
func (m *Matcher) admissible(x, y *candidate) (bool, Pair) {
	p := orient(x, y)
	if !x.day.IsZero() && !y.day.IsZero() {
		p.DateDistanceDays = daysBetween(x.day, y.day)
	}
	if !m.opts.IgnoreSchedule {
		if x.location != y.location {
			return false, p
		}
		if p.DateDistanceDays > m.opts.MaxDateDistanceDays {
			return false, p
		}
	}

	ok, sc := m.judge.Similar(p.A.Title, p.B.Title, m.opts.Strictness)
	if !ok {
		return false, p
	}
	p.SharedTags = sc.SharedTags
	p.Score = sc.Value
	return true, p
}

// matchGreedy visits records of both sources by (start date, id). Each free
// record takes the free counterpart with the highest 100 - distance score;
// equal scores go to the smallest id.
func (m *Matcher) matchGreedy(pool []*candidate) []Pair {
	order := eligibleSorted(pool)

	var pairs []Pair
	for _, x := range order {
		if x.used {
			continue
		}

		var best *candidate
		var bestPair Pair
		bestScore := 0
		for _, y := range order {
			if y.used || y.side != x.side.Other() {
				continue
			}
			ok, p := m.admissible(x, y)
			if !ok {
				continue
			}
			score := greedyBaseScore - p.DateDistanceDays
			if best == nil || score > bestScore || (score == bestScore && y.course.ID < best.course.ID) {
				best, bestPair, bestScore = y, p, score
			}
		}
		if best == nil {
			continue
		}

		bestPair.Score = bestScore
		x.used, best.used = true, true
		pairs = append(pairs, bestPair)
	}
	return pairs
}

// matchGlobal ranks every admissible cross-source pair by title score,
// then date distance, then ids, and keeps a pair only while both records
// are still free.
func (m *Matcher) matchGlobal(pool []*candidate) []Pair {
	order := eligibleSorted(pool)

	type ranked struct {
		a, b *candidate
		pair Pair
	}
	var all []ranked
	for _, x := range order {
		if x.side != domain.SourceA {
			continue
		}
		for _, y := range order {
			if y.side != domain.SourceB {
				continue
			}
			if ok, p := m.admissible(x, y); ok {
				all = append(all, ranked{a: x, b: y, pair: p})
			}
		}
	}

	slices.SortStableFunc(all, func(l, r ranked) int {
		return cmp.Or(
			cmp.Compare(r.pair.Score, l.pair.Score),
			cmp.Compare(l.pair.DateDistanceDays, r.pair.DateDistanceDays),
			strings.Compare(l.pair.A.ID, r.pair.A.ID),
			strings.Compare(l.pair.B.ID, r.pair.B.ID),
		)
	})

	var pairs []Pair
	for _, r := range all {
		if r.a.used || r.b.used {
			continue
		}
		r.a.used, r.b.used = true, true
		pairs = append(pairs, r.pair)
	}
	return pairs
}

// eligibleSorted returns the eligible candidates ordered by start day, then
// id, then source.
func eligibleSorted(pool []*candidate) []*candidate {
	out := make([]*candidate, 0, len(pool))
	for _, c := range pool {
		if c.eligible {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(l, r *candidate) int {
		return cmp.Or(
			l.day.Compare(r.day),
			strings.Compare(l.course.ID, r.course.ID),
			strings.Compare(string(l.side), string(r.side)),
		)
	})
	return out
}

func orient(x, y *candidate) Pair {
	if x.side == domain.SourceA {
		return Pair{A: x.course, B: y.course, AIndex: x.index, BIndex: y.index}
	}
	return Pair{A: y.course, B: x.course, AIndex: y.index, BIndex: x.index}
}

// civilDay drops the time of day so distances count calendar days.
func civilDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
