// Package capacity decides which course of a matched pair hosts the other's
// students and whether the host has the seats for them.
package capacity

import (
	"cmp"
	"strings"

	"course-synergy/internal/domain"
	"course-synergy/internal/keywords"
	"course-synergy/internal/matcher"
)

// Resolve classifies p into one of the five scenarios. It never fails:
// inconsistent seat counts simply fail the capacity checks.
//
//  1. nobody enrolled on either side   -> reference_unlikely
//  2. nobody enrolled on one side      -> reference_potential (host = the other side)
//  3. host = larger enrolment, ties keep the source A course as host
//  4. host has seats for the feeder    -> optimal
//  5. the feeder has more seats and fits the host's students -> permuted
//  6. otherwise                        -> overflow
func Resolve(p matcher.Pair) domain.SynergyGroup {
	a, b := p.A, p.B

	g := domain.SynergyGroup{
		ID:               GroupID(a, b),
		DateDistanceDays: p.DateDistanceDays,
		SharedTags:       keywords.Labels(p.SharedTags),
		HostIndex:        domain.NoRole,
		FeederIndex:      domain.NoRole,
	}

	switch {
	case a.Enrolled == 0 && b.Enrolled == 0:
		g.Scenario = domain.ScenarioReferenceUnlikely
		g.Members = byStartDate(a, b)
		return g

	case a.Enrolled == 0 || b.Enrolled == 0:
		host, other := a, b
		if a.Enrolled == 0 {
			host, other = b, a
		}
		g.Scenario = domain.ScenarioReferencePotential
		g.Members = []domain.Course{host, other}
		g.HostIndex = 0
		return g
	}

	host, feeder := a, b
	if b.Enrolled > a.Enrolled {
		host, feeder = b, a
	}

	switch {
	case host.AvailableSeats >= feeder.Enrolled:
		g.Scenario = domain.ScenarioOptimal
		g.StudentsToMove = feeder.Enrolled
	case feeder.AvailableSeats > host.AvailableSeats && feeder.AvailableSeats >= host.Enrolled:
		g.Scenario = domain.ScenarioPermuted
		g.StudentsToMove = host.Enrolled
		host, feeder = feeder, host
	default:
		g.Scenario = domain.ScenarioOverflow
	}

	if g.StudentsToMove < 0 {
		g.StudentsToMove = 0
	}
	g.Members = []domain.Course{host, feeder}
	g.HostIndex, g.FeederIndex = 0, 1
	return g
}

// ResolveAll resolves every pair, keeping their order.
func ResolveAll(pairs []matcher.Pair) []domain.SynergyGroup {
	out := make([]domain.SynergyGroup, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Resolve(p))
	}
	return out
}

// GroupID is stable for a given pair of records.
func GroupID(a, b domain.Course) string {
	return "group-" + a.ID + "-" + b.ID
}

func byStartDate(a, b domain.Course) []domain.Course {
	c := cmp.Or(a.StartDate.Compare(b.StartDate), strings.Compare(a.ID, b.ID))
	if c > 0 {
		return []domain.Course{b, a}
	}
	return []domain.Course{a, b}
}
