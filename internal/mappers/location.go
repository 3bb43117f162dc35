package mappers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"course-synergy/internal/textnorm"
)

// UnknownLocation is what NormalizeLocation returns for an empty cell.
const UnknownLocation = "Desconocida"

// provinces maps folded fragments to canonical names. Checked in order, so
// longer fragments that contain shorter ones come first.
var provinces = []struct{ key, name string }{
	{"las palmas", "Las Palmas"},
	{"santa cruz", "Santa Cruz de Tenerife"},
	{"tenerife", "Santa Cruz de Tenerife"},
	{"ciudad real", "Ciudad Real"},
	{"la rioja", "La Rioja"},
	{"alacant", "Alicante"},
	{"alicante", "Alicante"},
	{"barcelona", "Barcelona"},
	{"madrid", "Madrid"},
	{"valencia", "Valencia"},
	{"sevilla", "Sevilla"},
	{"zaragoza", "Zaragoza"},
	{"malaga", "Málaga"},
	{"murcia", "Murcia"},
	{"palma", "Baleares"},
	{"baleares", "Baleares"},
	{"vizcaya", "Vizcaya"},
	{"bizkaia", "Vizcaya"},
	{"coruna", "A Coruña"},
	{"pontevedra", "Pontevedra"},
	{"asturias", "Asturias"},
	{"granada", "Granada"},
	{"cordoba", "Córdoba"},
	{"girona", "Girona"},
	{"gerona", "Girona"},
	{"tarragona", "Tarragona"},
	{"lleida", "Lleida"},
	{"lerida", "Lleida"},
	{"almeria", "Almería"},
	{"cadiz", "Cádiz"},
	{"huelva", "Huelva"},
	{"jaen", "Jaén"},
	{"caceres", "Cáceres"},
	{"badajoz", "Badajoz"},
	{"toledo", "Toledo"},
	{"albacete", "Albacete"},
	{"cuenca", "Cuenca"},
	{"guadalajara", "Guadalajara"},
	{"leon", "León"},
	{"zamora", "Zamora"},
	{"salamanca", "Salamanca"},
	{"valladolid", "Valladolid"},
	{"palencia", "Palencia"},
	{"burgos", "Burgos"},
	{"soria", "Soria"},
	{"segovia", "Segovia"},
	{"avila", "Ávila"},
	{"navarra", "Navarra"},
	{"cantabria", "Cantabria"},
	{"huesca", "Huesca"},
	{"teruel", "Teruel"},
	{"castellon", "Castellón"},
	{"castello", "Castellón"},
}

// NormalizeLocation maps free-text locations ("C/ Mayor 3, SEVILLA") to a
// province name. Unrecognized values are folded and capitalized.
func NormalizeLocation(raw string) string {
	clean := textnorm.Fold(raw)
	if clean == "" {
		return UnknownLocation
	}
	for _, p := range provinces {
		if strings.Contains(clean, p.key) {
			return p.name
		}
	}
	r, size := utf8.DecodeRuneInString(clean)
	return string(unicode.ToUpper(r)) + clean[size:]
}
