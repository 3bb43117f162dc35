package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"course-synergy/internal/domain"
	"course-synergy/internal/synergy"
)

// Keep header order EXACT, the dashboard import reads columns by position.
var synergyHeader = []string{
	"ENTRY",
	"GROUP_ID",
	"SCENARIO",
	"ROLE",
	"SOURCE",
	"COURSE_ID",
	"TITLE",
	"LOCATION",
	"START_DATE",
	"END_DATE",
	"MODALITY",
	"DURATION_HOURS",
	"TOTAL_SEATS",
	"AVAILABLE_SEATS",
	"ENROLLED",
	"STATUS",
	"STUDENTS_TO_MOVE",
	"DATE_DISTANCE_DAYS",
	"SHARED_TAGS",
	"TOPIC",
}

const (
	RoleHost   = "host"
	RoleFeeder = "feeder"
	RoleMember = "member"
	RoleSingle = "single"
)

// DateLayout is the day-first format the reports use.
const DateLayout = "02/01/2006"

// WriteSynergyCSV writes one row per course, in entry order. Rows of the
// same group share ENTRY and GROUP_ID; group columns are empty for singles.
func WriteSynergyCSV(w io.Writer, entries []synergy.Entry) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(synergyHeader); err != nil {
		return err
	}

	for i, e := range entries {
		for _, row := range entryRows(i+1, e) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func entryRows(n int, e synergy.Entry) [][]string {
	if !e.IsGroup() {
		var rows [][]string
		for _, c := range e.Courses() {
			rows = append(rows, courseRow(n, c, RoleSingle, nil))
		}
		return rows
	}

	g := e.Group
	rows := make([][]string, 0, len(g.Members))
	for i, c := range g.Members {
		rows = append(rows, courseRow(n, c, role(*g, i), g))
	}
	return rows
}

func role(g domain.SynergyGroup, i int) string {
	switch i {
	case g.HostIndex:
		return RoleHost
	case g.FeederIndex:
		return RoleFeeder
	}
	return RoleMember
}

func courseRow(n int, c domain.Course, role string, g *domain.SynergyGroup) []string {
	var groupID, scenario, toMove, distance, tags string
	if g != nil {
		groupID = g.ID
		scenario = string(g.Scenario)
		toMove = strconv.Itoa(g.StudentsToMove)
		distance = strconv.Itoa(g.DateDistanceDays)
		tags = strings.Join(g.SharedTags, " | ")
	}

	return []string{
		strconv.Itoa(n),
		groupID,
		scenario,
		role,
		string(c.Source),
		c.ID,
		c.Title,
		c.Location,
		formatDate(c.StartDate),
		formatDate(c.EndDate),
		c.Modality,
		floatToString(c.DurationHours),
		strconv.Itoa(c.TotalSeats),
		strconv.Itoa(c.AvailableSeats),
		strconv.Itoa(c.Enrolled),
		c.Status(),
		toMove,
		distance,
		tags,
		c.Topic,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func floatToString(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
