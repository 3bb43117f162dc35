package mappers

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"course-synergy/internal/domain"
	"course-synergy/internal/textnorm"
)

// Field is a logical column of a course export.
type Field string

const (
	FieldID             Field = "id"
	FieldTitle          Field = "title"
	FieldLocation       Field = "location"
	FieldStartDate      Field = "start_date"
	FieldEndDate        Field = "end_date"
	FieldModality       Field = "modality"
	FieldDurationHours  Field = "duration_hours"
	FieldTotalSeats     Field = "total_seats"
	FieldAvailableSeats Field = "available_seats"
	FieldEnrolled       Field = "enrolled"
)

// aliases are compared after textnorm.Fold. The first alias present wins.
var aliases = map[Field][]string{
	FieldID:             {"id", "codigo", "code"},
	FieldTitle:          {"title", "curso", "titulo", "nombre"},
	FieldLocation:       {"location", "provincia", "localizacion", "ubicacion", "delegacion"},
	FieldStartDate:      {"start_date", "inicio", "fecha inicio", "fecha_inicio"},
	FieldEndDate:        {"end_date", "fin", "fecha fin", "fecha_fin"},
	FieldModality:       {"modality", "modalidad"},
	FieldDurationHours:  {"duration_hours", "duracion", "horas"},
	FieldTotalSeats:     {"total_seats", "aforo total", "plazas totales"},
	FieldAvailableSeats: {"available_seats", "plazas disponibles", "plazas"},
	FieldEnrolled:       {"enrolled", "inscritos", "# inscripciones", "inscripciones"},
}

// Header resolves logical fields to column indexes of one export.
type Header map[Field]int

func NewHeader(columns []string) Header {
	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		name := textnorm.Fold(strings.TrimPrefix(c, "\ufeff"))
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}

	h := Header{}
	for f, names := range aliases {
		for _, n := range names {
			if i, ok := byName[n]; ok {
				h[f] = i
				break
			}
		}
	}
	return h
}

func (h Header) Has(f Field) bool {
	_, ok := h[f]
	return ok
}

func (h Header) value(row []string, f Field) string {
	i, ok := h[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// CourseRow maps one export row to a course. It returns false when the row
// has no title. line numbers rows without an id.
func CourseRow(h Header, row []string, provider string, src domain.Source, line int) (domain.Course, bool) {
	title := CleanTitle(h.value(row, FieldTitle))
	if title == "" {
		return domain.Course{}, false
	}

	rawID := h.value(row, FieldID)
	if rawID == "" {
		rawID = fmt.Sprintf("L%d", line)
	}

	total := parseInt(h.value(row, FieldTotalSeats))
	available := parseInt(h.value(row, FieldAvailableSeats))
	enrolled := domain.DerivedEnrolled(total, available)
	if v := h.value(row, FieldEnrolled); v != "" {
		enrolled = parseInt(v)
	}

	return domain.Course{
		ID:             provider + "-" + rawID,
		Source:         src,
		Title:          title,
		Topic:          NormalizeTopic(title),
		Location:       NormalizeLocation(h.value(row, FieldLocation)),
		StartDate:      ParseDate(h.value(row, FieldStartDate)),
		EndDate:        ParseDate(h.value(row, FieldEndDate)),
		Modality:       firstNonEmpty(h.value(row, FieldModality), "Presencial"),
		DurationHours:  parseFloat(h.value(row, FieldDurationHours)),
		TotalSeats:     total,
		AvailableSeats: available,
		Enrolled:       enrolled,
	}, true
}

var parenthesized = regexp.MustCompile(`\s*\([^)]+\)`)

// CleanTitle drops the first parenthesized note, e.g. a course code.
func CleanTitle(s string) string {
	if s == "" {
		return ""
	}
	if loc := parenthesized.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	return strings.TrimSpace(s)
}

var dateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate accepts ISO or day-first dates. Anything else is the zero time.
func ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseInt is lenient: "12", "12.0" and " 12 " are 12, garbage is 0.
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return int(math.Trunc(parseFloat(s)))
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
