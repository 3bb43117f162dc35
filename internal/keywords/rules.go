package keywords

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule maps a pattern over the folded title (lower-case, no accents) to a tag.
//
// An Exclusive rule that matches is the whole result: no other rule is
// consulted. Supersedes lists tags of less specific rules that are dropped
// when this rule matches (e.g. "Puente Grúa" supersedes "Grúa").
type Rule struct {
	Pattern    *regexp.Regexp
	Tag        string
	Weight     int
	Exclusive  bool
	Supersedes []string
}

const (
	TagForklift = "Carretillas"
	TagPlatform = "PEMP"
)

func rule(pattern, tag string, weight int, supersedes ...string) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Tag: tag, Weight: weight, Supersedes: supersedes}
}

func exclusive(pattern, tag string, weight int) Rule {
	r := rule(pattern, tag, weight)
	r.Exclusive = true
	return r
}

// DefaultRules returns the production rule table. Order matters: exclusive
// rules are tried first in the order listed, forklift before platform.
// Weight-1 tags are generic and never drive a strict match on their own.
func DefaultRules() []Rule {
	return []Rule{
		exclusive(`carretilla|retracil|apilador|frontal`, TagForklift, 3),
		exclusive(`plataforma|\bpemp\b|elevador`, TagPlatform, 3),

		rule(`puente.*grua`, "Puente Grúa", 3, "Grúa"),
		rule(`grua.*torre`, "Grúa Torre", 3, "Grúa"),
		rule(`grua.*movil|autogrua`, "Grúa Móvil", 3, "Grúa"),
		rule(`grua`, "Grúa", 2),
		rule(`espacio.*confinado`, "Espacios Confinados", 3),
		rule(`primeros.*auxilio`, "Primeros Auxilios", 3),
		rule(`extincion.*incendio|incendio.*extinci`, "Extinción Incendios", 3, "Incendios"),
		rule(`incendio|fuego`, "Incendios", 2),
		rule(`emergencia|evacuacion`, "Emergencias", 2),
		rule(`altura|vertical`, "Trabajos en Altura", 3),
		rule(`recurso.*preventivo`, "Recurso Preventivo", 3),
		rule(`electric|\btension`, "Riesgo Eléctrico", 3),
		rule(`pantalla.*visualizaci|\bpvd\b`, "PVD", 3),
		rule(`oficina`, "Trabajo en Oficina", 2),
		rule(`soldadura|soldar`, "Soldadura", 3),
		rule(`manipula.*carga|manual.*carga`, "Manipulación Cargas", 3),
		rule(`ergonom`, "Ergonomía", 2),
		rule(`senalizacion`, "Señalización", 2),
		rule(`ruido`, "Ruido", 3),
		rule(`quimico`, "Riesgo Químico", 3),
		rule(`\batex\b|atmosfera.*explosiva`, "ATEX", 3),
		rule(`amianto`, "Amianto", 3),
		rule(`metal.*construccion|sector.*metal`, "Sector Metal", 3, "Metal", "Construcción"),
		rule(`construccion`, "Construcción", 2),
		rule(`metal`, "Metal", 2),
		rule(`alimenta`, "Alimentación", 3),
		rule(`\bdea\b|desfibrilador`, "DEA", 3),
		rule(`camion|vehiculo.*pesado`, "Conducción Vehículos", 2, "Conducción"),
		rule(`conduccion`, "Conducción", 1),
		rule(`liderazgo|equipo.*trabajo`, "Liderazgo/Equipos", 2),
		rule(`\bprl\b|prevencion.*riesgo`, "PRL", 1),
		rule(`basic`, "Nivel Básico", 1),
		rule(`seguridad`, "Seguridad", 1),
	}
}

type fileRule struct {
	Pattern    string   `yaml:"pattern"`
	Tag        string   `yaml:"tag"`
	Weight     int      `yaml:"weight"`
	Exclusive  bool     `yaml:"exclusive"`
	Supersedes []string `yaml:"supersedes"`
}

type ruleFile struct {
	Rules []fileRule `yaml:"rules"`
}

// LoadRules reads a YAML rule table from path.
//
//	rules:
//	  - pattern: "carretilla|retracil"
//	    tag: Carretillas
//	    weight: 3
//	    exclusive: true
func LoadRules(path string) ([]Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keywords: read rules: %w", err)
	}
	return ParseRules(b)
}

// ParseRules decodes a YAML rule table. Patterns are matched against folded
// titles, so they should be written lower-case and without accents.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("keywords: parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("keywords: rule file has no rules")
	}

	out := make([]Rule, 0, len(f.Rules))
	for i, fr := range f.Rules {
		if fr.Tag == "" {
			return nil, fmt.Errorf("keywords: rule %d: missing tag", i+1)
		}
		if fr.Weight < 1 {
			return nil, fmt.Errorf("keywords: rule %d (%s): weight must be >= 1, got %d", i+1, fr.Tag, fr.Weight)
		}
		re, err := regexp.Compile(fr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("keywords: rule %d (%s): %w", i+1, fr.Tag, err)
		}
		out = append(out, Rule{
			Pattern:    re,
			Tag:        fr.Tag,
			Weight:     fr.Weight,
			Exclusive:  fr.Exclusive,
			Supersedes: fr.Supersedes,
		})
	}
	return out, nil
}
