// Package dictionary builds the audit list of canonical title pairings
// between the two providers' catalogs.
package dictionary

import (
	"cmp"
	"slices"
	"strings"

	"course-synergy/internal/domain"
	"course-synergy/internal/keywords"
	"course-synergy/internal/matcher"
	"course-synergy/internal/similarity"
)

// Row is one line of the dictionary. Orphans have an empty TitleA or TitleB;
// their Tags are the orphan title's own tags.
type Row struct {
	TitleA string
	TitleB string
	Tags   []string
	Score  int
}

func (r Row) Paired() bool {
	return r.TitleA != "" && r.TitleB != ""
}

// Build pairs unique titles of each provider 1:1, best score first, using
// strict scoring so generic vocabulary never pairs two titles on its own.
// Rows: pairs by score desc, then source A orphans, then source B orphans,
// each alphabetically.
func Build(titlesA, titlesB []string, judge *similarity.Judge) []Row {
	if judge == nil {
		judge = similarity.New(nil)
	}
	uniqA, uniqB := unique(titlesA), unique(titlesB)

	m := matcher.New(judge, matcher.Options{
		Mode:           matcher.ModeGlobal,
		Strictness:     similarity.Strict,
		IgnoreSchedule: true,
	})
	res := m.Match(records(uniqA, domain.SourceA), records(uniqB, domain.SourceB))

	rows := make([]Row, 0, len(res.Pairs)+len(res.Unmatched))
	for _, p := range res.Pairs {
		rows = append(rows, Row{
			TitleA: p.A.Title,
			TitleB: p.B.Title,
			Tags:   keywords.Labels(p.SharedTags),
			Score:  p.Score,
		})
	}
	slices.SortStableFunc(rows, func(l, r Row) int {
		return cmp.Or(
			cmp.Compare(r.Score, l.Score),
			strings.Compare(l.TitleA, r.TitleA),
		)
	})

	var orphansA, orphansB []Row
	for _, c := range res.Unmatched {
		tags := keywords.Labels(judge.Extractor().Extract(c.Title))
		switch c.Source {
		case domain.SourceA:
			orphansA = append(orphansA, Row{TitleA: c.Title, Tags: tags})
		default:
			orphansB = append(orphansB, Row{TitleB: c.Title, Tags: tags})
		}
	}
	slices.SortStableFunc(orphansA, func(l, r Row) int { return strings.Compare(l.TitleA, r.TitleA) })
	slices.SortStableFunc(orphansB, func(l, r Row) int { return strings.Compare(l.TitleB, r.TitleB) })

	rows = append(rows, orphansA...)
	return append(rows, orphansB...)
}

// TitlesOf collects the titles of courses, for feeding Build from loaded records.
func TitlesOf(courses []domain.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Title)
	}
	return out
}

func unique(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func records(titles []string, src domain.Source) []domain.Course {
	out := make([]domain.Course, 0, len(titles))
	for _, t := range titles {
		out = append(out, domain.Course{ID: string(src) + ":" + t, Source: src, Title: t})
	}
	return out
}
