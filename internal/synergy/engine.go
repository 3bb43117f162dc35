// Package synergy runs the whole detection pipeline: match the two providers'
// courses, resolve each pair's capacity scenario and lay out the result as a
// single date-ordered list of groups and standalone courses.
package synergy

import (
	"slices"
	"time"

	"course-synergy/internal/capacity"
	"course-synergy/internal/domain"
	"course-synergy/internal/matcher"
	"course-synergy/internal/similarity"
)

// Entry is either a resolved group or a standalone course.
type Entry struct {
	Group  *domain.SynergyGroup `json:"group,omitempty"`
	Course *domain.Course       `json:"course,omitempty"`
}

func (e Entry) IsGroup() bool { return e.Group != nil }

// Courses returns the group members, or the single course.
func (e Entry) Courses() []domain.Course {
	if e.Group != nil {
		return e.Group.Members
	}
	if e.Course != nil {
		return []domain.Course{*e.Course}
	}
	return nil
}

// StartDate is the sort key: the earliest member start date.
func (e Entry) StartDate() time.Time {
	if e.Group != nil {
		return e.Group.EarliestStart()
	}
	if e.Course != nil {
		return e.Course.StartDate
	}
	return time.Time{}
}

// Engine holds the judge and the matcher options. It keeps no state between
// runs, so one Engine can serve any number of Assemble calls.
type Engine struct {
	judge *similarity.Judge
	opts  matcher.Options
}

// New builds an engine. opts.Mode is the default mode for Assemble calls
// that pass an empty mode.
func New(judge *similarity.Judge, opts matcher.Options) *Engine {
	if judge == nil {
		judge = similarity.New(nil)
	}
	return &Engine{judge: judge, opts: opts}
}

// Match exposes the candidate matcher with the engine's options.
func (e *Engine) Match(coursesA, coursesB []domain.Course, mode matcher.Mode) matcher.Result {
	return e.matcher(mode).Match(coursesA, coursesB)
}

// Assemble matches courses across providers and returns every input course
// exactly once, either inside a group or as a standalone entry, sorted by
// start date (stable; undated entries last).
func (e *Engine) Assemble(courses []domain.Course, mode matcher.Mode) []Entry {
	// posA/posB map matcher input positions back to positions in courses
	var coursesA, coursesB []domain.Course
	var posA, posB []int
	for i, c := range courses {
		switch c.Source {
		case domain.SourceA:
			coursesA = append(coursesA, c)
			posA = append(posA, i)
		case domain.SourceB:
			coursesB = append(coursesB, c)
			posB = append(posB, i)
		}
	}

	res := e.matcher(mode).Match(coursesA, coursesB)

	grouped := make([]bool, len(courses))
	entries := make([]Entry, 0, len(courses)-len(res.Pairs))
	for _, p := range res.Pairs {
		grouped[posA[p.AIndex]] = true
		grouped[posB[p.BIndex]] = true
		g := capacity.Resolve(p)
		entries = append(entries, Entry{Group: &g})
	}

	// singletons keep input order ahead of the stable sort
	for i := range courses {
		if grouped[i] {
			continue
		}
		c := courses[i]
		entries = append(entries, Entry{Course: &c})
	}

	slices.SortStableFunc(entries, func(l, r Entry) int {
		return compareDates(l.StartDate(), r.StartDate())
	})
	return entries
}

// Flatten expands groups into their members, keeping entry order.
func Flatten(entries []Entry) []domain.Course {
	var out []domain.Course
	for _, e := range entries {
		out = append(out, e.Courses()...)
	}
	return out
}

// Groups returns only the resolved groups of entries.
func Groups(entries []Entry) []domain.SynergyGroup {
	var out []domain.SynergyGroup
	for _, e := range entries {
		if e.Group != nil {
			out = append(out, *e.Group)
		}
	}
	return out
}

func (e *Engine) matcher(mode matcher.Mode) *matcher.Matcher {
	opts := e.opts
	if mode != "" {
		// a zero Strictness lets the matcher pick the one that goes with mode
		opts.Mode = mode
	}
	return matcher.New(e.judge, opts)
}

func compareDates(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return a.Compare(b)
}
