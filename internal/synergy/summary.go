package synergy

import "course-synergy/internal/domain"

// Category buckets scenarios the way the synergy dashboard reports them.
type Category string

const (
	CategoryRecommended    Category = "recommended"
	CategoryPossible       Category = "possible"
	CategoryUnlikely       Category = "unlikely"
	CategoryNotRecommended Category = "not_recommended"
)

// Categories in reporting order.
var Categories = []Category{
	CategoryRecommended,
	CategoryPossible,
	CategoryUnlikely,
	CategoryNotRecommended,
}

// CategoryOf maps a scenario to its dashboard category.
func CategoryOf(s domain.Scenario) Category {
	switch s {
	case domain.ScenarioOptimal, domain.ScenarioPermuted:
		return CategoryRecommended
	case domain.ScenarioReferencePotential:
		return CategoryPossible
	case domain.ScenarioReferenceUnlikely:
		return CategoryUnlikely
	}
	return CategoryNotRecommended
}

type CategoryStats struct {
	Category       Category `json:"category"`
	Groups         int      `json:"groups"`
	Enrolled       int      `json:"enrolled"`
	EnrolledA      int      `json:"enrolledA"`
	EnrolledB      int      `json:"enrolledB"`
	StudentsToMove int      `json:"studentsToMove"`
}

type Summary struct {
	Entries    int                         `json:"entries"`
	Courses    int                         `json:"courses"`
	Groups     int                         `json:"groups"`
	Singletons int                         `json:"singletons"`
	Scenarios  map[domain.Scenario]int     `json:"scenarios"`
	Categories map[Category]*CategoryStats `json:"categories"`
}

// Summarize counts groups per scenario and category along with the enrolled
// students involved on each side.
func Summarize(entries []Entry) Summary {
	s := Summary{
		Entries:    len(entries),
		Scenarios:  make(map[domain.Scenario]int, len(domain.Scenarios)),
		Categories: make(map[Category]*CategoryStats, len(Categories)),
	}
	for _, c := range Categories {
		s.Categories[c] = &CategoryStats{Category: c}
	}

	for _, e := range entries {
		s.Courses += len(e.Courses())
		if e.Group == nil {
			s.Singletons++
			continue
		}

		s.Groups++
		s.Scenarios[e.Group.Scenario]++

		st := s.Categories[CategoryOf(e.Group.Scenario)]
		st.Groups++
		st.StudentsToMove += e.Group.StudentsToMove
		for _, m := range e.Group.Members {
			st.Enrolled += m.Enrolled
			switch m.Source {
			case domain.SourceA:
				st.EnrolledA += m.Enrolled
			case domain.SourceB:
				st.EnrolledB += m.Enrolled
			}
		}
	}
	return s
}
