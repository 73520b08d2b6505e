package regions

import "strings"

// Canonical maps a single region name to its standardized voivodeship
// name via the alias table. For callers that already hold an isolated
// region string (such as the Heredis Region column) and do not need the
// full place-string resolution.
func Canonical(name string) (string, bool) {
	region, ok := voivodeshipAliases[strings.ToUpper(strings.TrimSpace(name))]
	return region, ok
}

// voivodeshipAliases maps the spellings encountered in genealogy exports to
// the one canonical lowercase Polish name per voivodeship. Keys are
// upper-cased before lookup. The table is closed domain knowledge: Polish
// names with and without diacritics plus the English exonyms, sixteen
// voivodeships in total.
var voivodeshipAliases = map[string]string{
	"DOLNOŚLĄSKIE":                 "dolnośląskie",
	"DOLNOSLASKIE":                 "dolnośląskie",
	"LOWER SILESIAN VOIVODESHIP":   "dolnośląskie",
	"LOWER SILESIA":                "dolnośląskie",
	"KUJAWSKO-POMORSKIE":           "kujawsko-pomorskie",
	"KUYAVIAN-POMERANIAN VOIVODESHIP": "kujawsko-pomorskie",
	"KUYAVIAN-POMERANIAN":          "kujawsko-pomorskie",
	"LUBELSKIE":                    "lubelskie",
	"LUBLIN VOIVODESHIP":           "lubelskie",
	"LUBUSKIE":                     "lubuskie",
	"LUBUSZ VOIVODESHIP":           "lubuskie",
	"ŁÓDZKIE":                      "łódzkie",
	"ŁODZKIE":                      "łódzkie",
	"LODZKIE":                      "łódzkie",
	"LODZ VOIVODESHIP":             "łódzkie",
	"MAŁOPOLSKIE":                  "małopolskie",
	"MAŁOPOLSKA":                   "małopolskie",
	"MALOPOLSKIE":                  "małopolskie",
	"MALOPOLSKA":                   "małopolskie",
	"LESSER POLAND VOIVODESHIP":    "małopolskie",
	"LESSER POLAND":                "małopolskie",
	"MAZOWIECKIE":                  "mazowieckie",
	"MASOVIAN VOIVODESHIP":         "mazowieckie",
	"MASOVIA":                      "mazowieckie",
	"OPOLSKIE":                     "opolskie",
	"OPOLE VOIVODESHIP":            "opolskie",
	"PODKARPACKIE":                 "podkarpackie",
	"SUBCARPATHIAN VOIVODESHIP":    "podkarpackie",
	"SUBCARPATHIA":                 "podkarpackie",
	"PODLASKIE":                    "podlaskie",
	"PODLASIE":                     "podlaskie",
	"PODLACHIA":                    "podlaskie",
	"POMORSKIE":                    "pomorskie",
	"POMERANIAN VOIVODESHIP":       "pomorskie",
	"POMERANIA":                    "pomorskie",
	"ŚLĄSKIE":                      "śląskie",
	"SLASKIE":                      "śląskie",
	"SILESIAN VOIVODESHIP":         "śląskie",
	"SILESIA":                      "śląskie",
	"ŚWIĘTOKRZYSKIE":               "świętokrzyskie",
	"SWIETOKRZYSKIE":               "świętokrzyskie",
	"HOLY CROSS VOIVODESHIP":       "świętokrzyskie",
	"WARMIŃSKO-MAZURSKIE":          "warmińsko-mazurskie",
	"WARMINSKO-MAZURSKIE":          "warmińsko-mazurskie",
	"WARMIAN-MASURIAN VOIVODESHIP": "warmińsko-mazurskie",
	"WIELKOPOLSKIE":                "wielkopolskie",
	"GREATER POLAND VOIVODESHIP":   "wielkopolskie",
	"GREATER POLAND":               "wielkopolskie",
	"ZACHODNIOPOMORSKIE":           "zachodniopomorskie",
	"WEST POMERANIAN VOIVODESHIP":  "zachodniopomorskie",
	"WEST POMERANIA":               "zachodniopomorskie",
}
