package mappers

import (
	"strings"

	"course-synergy/internal/textnorm"
)

const TopicGeneral = "General"

// topics are checked in order against the folded title; the first bucket
// with a matching fragment wins.
var topics = []struct {
	topic     string
	fragments []string
}{
	{"Seguridad", []string{"seguridad"}},
	{"PRL", []string{"prl", "metal"}},
	{"Seguridad", []string{"plataformas", "altura"}},
	{"PRL", []string{"prevencion", "riesgos"}},
	{"Recursos Humanos", []string{"liderazgo", "equipos", "management"}},
	{"Ingeniería", []string{"ingenieria", "industrial", "procesos"}},
}

// NormalizeTopic buckets a course title into a report topic. Titles that
// match nothing, and empty ones, are TopicGeneral.
func NormalizeTopic(title string) string {
	folded := textnorm.Fold(title)
	if folded == "" {
		return TopicGeneral
	}
	for _, t := range topics {
		for _, f := range t.fragments {
			if strings.Contains(folded, f) {
				return t.topic
			}
		}
	}
	return TopicGeneral
}
