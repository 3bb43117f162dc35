// Package csvfile loads provider course exports saved as CSV, from disk or
// over HTTP.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"course-synergy/internal/domain"
	"course-synergy/internal/httpx"
	"course-synergy/internal/mappers"
)

// Loader adapts one CSV export into the providers.RecordLoader interface.
type Loader struct {
	Provider string // prefix of every course id, e.g. "ASPY"
	Source   domain.Source
	Path     string // local file or http(s) URL

	// From drops courses starting before it, and undated ones. Zero keeps all.
	From time.Time

	Client *http.Client
	Retry  httpx.RetryConfig
}

func (l Loader) Name() string { return l.Provider }

func (l Loader) LoadCourses(ctx context.Context) ([]domain.Course, error) {
	if l.Path == "" {
		return nil, fmt.Errorf("csvfile: %s: missing path", l.Provider)
	}

	data, err := l.read(ctx)
	if err != nil {
		return nil, err
	}

	courses, err := Parse(bytes.NewReader(data), l.Provider, l.Source)
	if err != nil {
		return nil, fmt.Errorf("csvfile: %s: %w", l.Path, err)
	}
	if l.From.IsZero() {
		return courses, nil
	}
	return StartingFrom(courses, l.From), nil
}

func (l Loader) read(ctx context.Context) ([]byte, error) {
	if isURL(l.Path) {
		body, err := httpx.Get(ctx, l.Client, l.Path, l.Retry)
		if err != nil {
			return nil, fmt.Errorf("csvfile: fetch %s: %w", l.Path, err)
		}
		return body, nil
	}

	b, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: read: %w", err)
	}
	return b, nil
}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// Parse reads a header row followed by course rows. Rows without a title
// are skipped; bad numbers and dates fall back to zero values.
func Parse(r io.Reader, provider string, src domain.Source) ([]domain.Course, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectComma(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	cols, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	h := mappers.NewHeader(cols)
	if !h.Has(mappers.FieldTitle) {
		return nil, fmt.Errorf("header: no title column in %q", cols)
	}

	var out []domain.Course
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if c, ok := mappers.CourseRow(h, row, provider, src, line); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// StartingFrom keeps courses whose start day is on or after from.
func StartingFrom(courses []domain.Course, from time.Time) []domain.Course {
	y, m, d := from.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if !c.HasStartDate() {
			continue
		}
		cy, cm, cd := c.StartDate.Date()
		if time.Date(cy, cm, cd, 0, 0, 0, 0, time.UTC).Before(day) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// detectComma picks ';' when the header line has more of them than commas,
// which is what spreadsheet exports in Spanish locales produce.
func detectComma(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
