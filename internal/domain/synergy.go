package domain

import "time"

// Scenario is the outcome of capacity resolution for a matched pair.
type Scenario string

const (
	ScenarioOptimal            Scenario = "optimal"
	ScenarioPermuted           Scenario = "permuted"
	ScenarioReferencePotential Scenario = "reference_potential"
	ScenarioReferenceUnlikely  Scenario = "reference_unlikely"
	ScenarioOverflow           Scenario = "overflow"
)

// Scenarios lists every scenario in resolution order.
var Scenarios = []Scenario{
	ScenarioOptimal,
	ScenarioPermuted,
	ScenarioReferencePotential,
	ScenarioReferenceUnlikely,
	ScenarioOverflow,
}

// NoRole marks an undefined HostIndex/FeederIndex.
const NoRole = -1

// SynergyGroup is a resolved pair of courses, one per provider.
// Members has exactly two entries; when a host exists it is Members[0].
type SynergyGroup struct {
	ID       string   `json:"id"`
	Members  []Course `json:"members"`
	Scenario Scenario `json:"scenarioType"`

	HostIndex   int `json:"hostIndex"`
	FeederIndex int `json:"feederIndex"`

	StudentsToMove int `json:"studentsToMove"`

	DateDistanceDays int      `json:"dateDistanceDays"`
	SharedTags       []string `json:"sharedTags,omitempty"`
}

// Host returns the member designated to receive students, if any.
func (g SynergyGroup) Host() (Course, bool) {
	return g.member(g.HostIndex)
}

// Feeder returns the member whose students would move, if any.
func (g SynergyGroup) Feeder() (Course, bool) {
	return g.member(g.FeederIndex)
}

func (g SynergyGroup) member(i int) (Course, bool) {
	if i < 0 || i >= len(g.Members) {
		return Course{}, false
	}
	return g.Members[i], true
}

// EarliestStart is the first start date among members; zero if none has one.
func (g SynergyGroup) EarliestStart() time.Time {
	var out time.Time
	for _, m := range g.Members {
		if !m.HasStartDate() {
			continue
		}
		if out.IsZero() || m.StartDate.Before(out) {
			out = m.StartDate
		}
	}
	return out
}
