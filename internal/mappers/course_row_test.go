package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-synergy/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewHeaderAliases(t *testing.T) {
	h := NewHeader([]string{"\ufeffID", "Curso", "Inicio", "Fin", "Modalidad", "Duración", "# Inscripciones", "Aforo total", "Plazas disponibles", "Provincia"})

	assert.Equal(t, 0, h[FieldID])
	assert.Equal(t, 1, h[FieldTitle])
	assert.Equal(t, 2, h[FieldStartDate])
	assert.Equal(t, 3, h[FieldEndDate])
	assert.Equal(t, 5, h[FieldDurationHours])
	assert.Equal(t, 6, h[FieldEnrolled])
	assert.Equal(t, 9, h[FieldLocation])
	assert.True(t, h.Has(FieldAvailableSeats))
}

func TestCourseRow(t *testing.T) {
	h := NewHeader([]string{"id", "title", "location", "start_date", "end_date", "modality", "duration_hours", "total_seats", "available_seats", "enrolled"})

	c, ok := CourseRow(h,
		[]string{"1042", " Trabajos en altura (TA-01) ", "sevilla capital", "2026-03-02", "03/03/2026", "", "8", "12", "4", ""},
		"ASPY", domain.SourceA, 2)
	require.True(t, ok)

	assert.Equal(t, domain.Course{
		ID:             "ASPY-1042",
		Source:         domain.SourceA,
		Title:          "Trabajos en altura",
		Topic:          "Seguridad",
		Location:       "Sevilla",
		StartDate:      date(2026, time.March, 2),
		EndDate:        date(2026, time.March, 3),
		Modality:       "Presencial",
		DurationHours:  8,
		TotalSeats:     12,
		AvailableSeats: 4,
		Enrolled:       8,
	}, c)
}

func TestCourseRowDefaults(t *testing.T) {
	h := NewHeader([]string{"title", "total_seats", "available_seats", "enrolled", "start_date"})

	tests := []struct {
		name string
		row  []string
		want func(t *testing.T, c domain.Course)
	}{
		{
			name: "explicit enrolled wins",
			row:  []string{"PRL", "10", "9", "5", "2026-01-01"},
			want: func(t *testing.T, c domain.Course) {
				assert.Equal(t, 5, c.Enrolled)
			},
		},
		{
			name: "derived enrolled never negative",
			row:  []string{"PRL", "3", "7", "", ""},
			want: func(t *testing.T, c domain.Course) {
				assert.Equal(t, 0, c.Enrolled)
			},
		},
		{
			name: "garbage numbers and dates",
			row:  []string{"PRL", "n/a", "x", "", "mañana"},
			want: func(t *testing.T, c domain.Course) {
				assert.Zero(t, c.TotalSeats)
				assert.Zero(t, c.AvailableSeats)
				assert.False(t, c.HasStartDate())
			},
		},
		{
			name: "missing id and location",
			row:  []string{"PRL"},
			want: func(t *testing.T, c domain.Course) {
				assert.Equal(t, "MAS-L7", c.ID)
				assert.Equal(t, UnknownLocation, c.Location)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := CourseRow(h, tt.row, "MAS", domain.SourceB, 7)
			require.True(t, ok)
			tt.want(t, c)
		})
	}
}

func TestCourseRowSkipsUntitled(t *testing.T) {
	h := NewHeader([]string{"id", "title"})
	_, ok := CourseRow(h, []string{"1", "  "}, "MAS", domain.SourceB, 2)
	assert.False(t, ok)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "PRL Metal", CleanTitle("PRL Metal (20h)"))
	assert.Equal(t, "PRL Metal (b)", CleanTitle("PRL (a) Metal (b)"))
	assert.Equal(t, "", CleanTitle(""))
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, date(2026, time.May, 4), ParseDate("2026-05-04"))
	assert.Equal(t, date(2026, time.May, 4), ParseDate("04/05/2026"))
	assert.Equal(t, date(2026, time.May, 4), ParseDate("4/5/2026"))
	assert.True(t, ParseDate("31/02/2026").IsZero())
	assert.True(t, ParseDate("").IsZero())
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 12, parseInt("12"))
	assert.Equal(t, 12, parseInt("12.7"))
	assert.Equal(t, 3, parseInt("3,5"))
	assert.Equal(t, 0, parseInt("abc"))
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", UnknownLocation},
		{"  ", UnknownLocation},
		{"MÁLAGA", "Málaga"},
		{"Las Palmas de Gran Canaria", "Las Palmas"},
		{"Palma de Mallorca", "Baleares"},
		{"A Coruña", "A Coruña"},
		{"Polígono Sur, Castelló", "Castellón"},
		{"ONLINE", "Online"},
		{"éibar", "Eibar"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLocation(tt.in))
		})
	}
}

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", TopicGeneral},
		{"Seguridad vial y PRL", "Seguridad"},
		{"PRL del sector del metal", "PRL"},
		{"Trabajos en altura", "Seguridad"},
		{"Prevención de riesgos en oficinas", "PRL"},
		{"Liderazgo de equipos", "Recursos Humanos"},
		{"Ingeniería de procesos", "Ingeniería"},
		{"Primeros auxilios", TopicGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTopic(tt.in))
		})
	}
}
