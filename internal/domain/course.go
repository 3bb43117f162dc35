package domain

import "time"

// Source identifies which of the two training providers issued a course.
// Provider names (ASPY, MAS, ...) are mapped to these tags by the loaders.
type Source string

const (
	SourceA Source = "A"
	SourceB Source = "B"
)

// Other returns the opposite provider tag. Unknown tags return "".
func (s Source) Other() Source {
	switch s {
	case SourceA:
		return SourceB
	case SourceB:
		return SourceA
	}
	return ""
}

const (
	StatusConfirmed = "CONFIRMADO"
	StatusClosed    = "CERRADO"
)

// Course is the normalized course record every loader maps into.
// The synergy engine treats it as an immutable value.
type Course struct {
	ID       string `json:"id"` // unique per source+row, e.g. "ASPY-1042"
	Source   Source `json:"source"`
	Title    string `json:"title"`
	Topic    string `json:"topic,omitempty"` // coarse report bucket, e.g. "PRL"
	Location string `json:"location"`

	StartDate time.Time `json:"startDate"` // zero value means "no date"
	EndDate   time.Time `json:"endDate"`

	Modality      string  `json:"modality,omitempty"`
	DurationHours float64 `json:"durationHours,omitempty"`

	TotalSeats     int `json:"totalSeats"`
	AvailableSeats int `json:"availableSeats"`
	Enrolled       int `json:"enrolled"`
}

// HasStartDate reports whether the loader resolved a start date.
func (c Course) HasStartDate() bool {
	return !c.StartDate.IsZero()
}

// Status mirrors the provider exports: a course with free seats is still open.
func (c Course) Status() string {
	if c.AvailableSeats > 0 {
		return StatusConfirmed
	}
	return StatusClosed
}

// DerivedEnrolled is the enrolled count loaders fall back to when the export
// has no explicit column.
func DerivedEnrolled(total, available int) int {
	if n := total - available; n > 0 {
		return n
	}
	return 0
}
