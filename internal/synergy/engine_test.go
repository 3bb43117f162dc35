package synergy

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-synergy/internal/domain"
	"course-synergy/internal/matcher"
	"course-synergy/internal/similarity"
)

func day(d int) time.Time {
	if d == 0 {
		return time.Time{}
	}
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

type courseOpt func(*domain.Course)

func seats(enrolled, available int) courseOpt {
	return func(c *domain.Course) {
		c.Enrolled = enrolled
		c.AvailableSeats = available
		c.TotalSeats = enrolled + available
	}
}

func mk(id string, src domain.Source, title, loc string, d int, opts ...courseOpt) domain.Course {
	c := domain.Course{ID: id, Source: src, Title: title, Location: loc, StartDate: day(d)}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func sampleCourses() []domain.Course {
	return []domain.Course{
		mk("ASPY-1", domain.SourceA, "Trabajos en altura", "Madrid", 10, seats(5, 3)),
		mk("MAS-1", domain.SourceB, "Trabajos verticales", "Madrid", 13, seats(2, 10)),
		mk("ASPY-2", domain.SourceA, "Primeros auxilios", "Sevilla", 2, seats(0, 12)),
		mk("MAS-2", domain.SourceB, "Primeros auxilios y DEA", "Sevilla", 5, seats(0, 8)),
		mk("ASPY-3", domain.SourceA, "Carretillas elevadoras", "Valencia", 1, seats(10, 0)),
		mk("MAS-3", domain.SourceB, "Carretilla frontal", "Valencia", 6, seats(8, 1)),
		mk("MAS-4", domain.SourceB, "Uso de plataformas elevadoras", "Valencia", 3, seats(4, 4)),
		mk("MAS-5", domain.SourceB, "Riesgo eléctrico", "Desconocida", 4, seats(3, 3)),
		mk("ASPY-4", domain.SourceA, "Riesgo eléctrico", "Desconocida", 4, seats(3, 3)),
		mk("ASPY-5", domain.SourceA, "Espacios confinados", "Bilbao", 0, seats(1, 1)),
		mk("EXT-1", domain.Source("C"), "Trabajos en altura", "Madrid", 11, seats(1, 1)),
	}
}

func flattenIDs(entries []Entry) []string {
	var out []string
	for _, c := range Flatten(entries) {
		out = append(out, c.ID)
	}
	return out
}

func TestAssembleScenarios(t *testing.T) {
	e := New(nil, matcher.Options{})
	entries := e.Assemble(sampleCourses(), matcher.ModeGreedy)

	groups := Groups(entries)
	require.Len(t, groups, 3)

	byID := map[string]domain.SynergyGroup{}
	for _, g := range groups {
		byID[g.ID] = g
	}

	opt, ok := byID["group-ASPY-1-MAS-1"]
	require.True(t, ok)
	assert.Equal(t, domain.ScenarioOptimal, opt.Scenario)
	assert.Equal(t, 2, opt.StudentsToMove)
	host, _ := opt.Host()
	assert.Equal(t, "ASPY-1", host.ID)

	ref, ok := byID["group-ASPY-2-MAS-2"]
	require.True(t, ok)
	assert.Equal(t, domain.ScenarioReferenceUnlikely, ref.Scenario)
	assert.Equal(t, 0, ref.StudentsToMove)

	over, ok := byID["group-ASPY-3-MAS-3"]
	require.True(t, ok)
	assert.Equal(t, domain.ScenarioOverflow, over.Scenario)
}

func TestAssembleCompleteness(t *testing.T) {
	courses := sampleCourses()
	entries := New(nil, matcher.Options{}).Assemble(courses, matcher.ModeGreedy)

	got := flattenIDs(entries)
	var want []string
	for _, c := range courses {
		want = append(want, c.ID)
	}
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestAssembleOrdering(t *testing.T) {
	entries := New(nil, matcher.Options{}).Assemble(sampleCourses(), matcher.ModeGreedy)

	var keys []time.Time
	for _, e := range entries {
		keys = append(keys, e.StartDate())
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].IsZero() {
			continue
		}
		assert.False(t, keys[i-1].IsZero(), "undated entries must come last")
		assert.False(t, keys[i].Before(keys[i-1]), "entry %d out of order", i)
	}

	first := entries[0]
	require.True(t, first.IsGroup())
	assert.Equal(t, "group-ASPY-3-MAS-3", first.Group.ID)
	last := entries[len(entries)-1]
	require.False(t, last.IsGroup())
	assert.Equal(t, "ASPY-5", last.Course.ID)
}

func TestAssembleIsIdempotent(t *testing.T) {
	e := New(nil, matcher.Options{})
	courses := sampleCourses()

	first := e.Assemble(courses, matcher.ModeGreedy)
	second := e.Assemble(courses, matcher.ModeGreedy)
	assert.Equal(t, first, second)
	assert.Equal(t, sampleCourses(), courses)
}

func TestAssembleNoSynergies(t *testing.T) {
	courses := []domain.Course{
		mk("ASPY-1", domain.SourceA, "Trabajos en altura", "Madrid", 1),
		mk("MAS-1", domain.SourceB, "Primeros auxilios", "Madrid", 1),
	}
	entries := New(nil, matcher.Options{}).Assemble(courses, "")

	assert.Empty(t, Groups(entries))
	assert.Len(t, entries, 2)
	assert.Equal(t, []string{"ASPY-1", "MAS-1"}, flattenIDs(entries))
}

func TestAssembleEmpty(t *testing.T) {
	assert.Empty(t, New(nil, matcher.Options{}).Assemble(nil, matcher.ModeGreedy))
}

func TestAssembleGlobalMode(t *testing.T) {
	courses := []domain.Course{
		mk("ASPY-1", domain.SourceA, "PRL básico", "Madrid", 1, seats(2, 5)),
		mk("MAS-1", domain.SourceB, "PRL básico oficinas", "Madrid", 2, seats(1, 5)),
	}
	e := New(nil, matcher.Options{Mode: matcher.ModeGreedy})

	assert.Len(t, Groups(e.Assemble(courses, matcher.ModeGreedy)), 1)
	assert.Empty(t, Groups(e.Assemble(courses, matcher.ModeGlobal)))
}

func TestAssembleDuplicateIDsStayComplete(t *testing.T) {
	courses := []domain.Course{
		mk("ASPY-1", domain.SourceA, "Trabajos en altura", "Madrid", 1, seats(1, 1)),
		mk("ASPY-1", domain.SourceA, "Trabajos en altura", "Madrid", 1, seats(1, 1)),
		mk("MAS-1", domain.SourceB, "Trabajos en altura", "Madrid", 2, seats(1, 1)),
	}
	entries := New(nil, matcher.Options{}).Assemble(courses, matcher.ModeGreedy)

	assert.Len(t, Flatten(entries), 3)
	assert.Len(t, Groups(entries), 1)
}

func TestAssembleManyCourses(t *testing.T) {
	var courses []domain.Course
	for i := 1; i <= 60; i++ {
		src := domain.SourceA
		if i%2 == 0 {
			src = domain.SourceB
		}
		courses = append(courses, mk(fmt.Sprintf("C-%02d", i), src, "Trabajos en altura", "Madrid", i%28+1, seats(i%4, i%5)))
	}

	entries := New(nil, matcher.Options{}).Assemble(courses, matcher.ModeGreedy)
	assert.Len(t, Flatten(entries), len(courses))

	seen := map[string]bool{}
	for _, g := range Groups(entries) {
		for _, m := range g.Members {
			assert.False(t, seen[m.ID], "course %s in two groups", m.ID)
			seen[m.ID] = true
		}
	}
}

func TestAssembleKeepsExplicitStrictnessAcrossModes(t *testing.T) {
	courses := []domain.Course{
		mk("ASPY-1", domain.SourceA, "PRL básico", "Madrid", 1, seats(2, 5)),
		mk("MAS-1", domain.SourceB, "PRL básico oficinas", "Madrid", 2, seats(1, 5)),
	}

	permissive := New(nil, matcher.Options{Mode: matcher.ModeGreedy, Strictness: similarity.Permissive})
	assert.Len(t, Groups(permissive.Assemble(courses, matcher.ModeGlobal)), 1)

	strict := New(nil, matcher.Options{Mode: matcher.ModeGlobal, Strictness: similarity.Strict})
	assert.Empty(t, Groups(strict.Assemble(courses, matcher.ModeGreedy)))
}

func TestAssembleDuplicateIDsKeepUnmatchedTwin(t *testing.T) {
	courses := []domain.Course{
		mk("ASPY-1", domain.SourceA, "Trabajos en altura", "Sevilla", 1, seats(1, 1)),
		mk("ASPY-1", domain.SourceA, "Trabajos en altura", "Madrid", 1, seats(1, 1)),
		mk("MAS-1", domain.SourceB, "Trabajos en altura", "Madrid", 2, seats(1, 1)),
	}
	entries := New(nil, matcher.Options{}).Assemble(courses, matcher.ModeGreedy)

	groups := Groups(entries)
	require.Len(t, groups, 1)
	for _, m := range groups[0].Members {
		assert.Equal(t, "Madrid", m.Location)
	}

	var singles []domain.Course
	for _, e := range entries {
		if !e.IsGroup() {
			singles = append(singles, e.Courses()...)
		}
	}
	require.Len(t, singles, 1)
	assert.Equal(t, "Sevilla", singles[0].Location)
}
