package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration parameters, loaded from environment variables.
type Config struct {
	// Path to the sqlite database holding the region cache, the retrieved
	// audit log and the matched records. "~" expands to the home directory.
	DBPath string `envconfig:"DB_PATH" default:"~/.genesearch/genesearch.db"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4343"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Person source: exactly one of the two should be set.
	GedcomPath  string `envconfig:"GEDCOM_PATH"`
	HeredisPath string `envconfig:"HEREDIS_PATH"`

	// Persons born after this year are assumed to be alive and are never searched.
	BirthYearCutoff int `envconfig:"BIRTH_YEAR_CUTOFF" default:"1978"`

	// Nominatim geocoding fallback for places the alias table cannot resolve.
	UseNominatim     bool          `envconfig:"USE_NOMINATIM" default:"false"`
	NominatimBaseURL string        `envconfig:"NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	NominatimTimeout time.Duration `envconfig:"NOMINATIM_TIMEOUT" default:"5s"`
	NominatimTool    string        `envconfig:"NOMINATIM_TOOL" default:"genesearch/0.1.0"`

	EnabledSources string        `envconfig:"ENABLED_SOURCES" default:"geneteka,ptg,poznan,basia"`
	SearchTimeout  time.Duration `envconfig:"SEARCH_TIMEOUT" default:"30s"`
	PersonPause    time.Duration `envconfig:"PERSON_PAUSE" default:"2s"`
	MaxPages       int           `envconfig:"MAX_PAGES" default:"0"`
	RecentOnly     bool          `envconfig:"RECENT_ONLY" default:"false"`

	GenetekaBaseURL string `envconfig:"GENETEKA_BASE_URL" default:"https://geneteka.genealodzy.pl"`
	PTGBaseURL      string `envconfig:"PTG_BASE_URL" default:"https://www.ptg.gda.pl"`
	PoznanBaseURL   string `envconfig:"POZNAN_BASE_URL" default:"https://poznan-project.psnc.pl"`
	BaSIABaseURL    string `envconfig:"BASIA_BASE_URL" default:"https://www.basia.famula.pl"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:""`
}

// DatabasePath returns DBPath with a leading "~" expanded.
func (c *Config) DatabasePath() string {
	if strings.HasPrefix(c.DBPath, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(c.DBPath, "~"))
		}
	}
	return c.DBPath
}

// SourceNames returns the enabled source names, trimmed.
func (c *Config) SourceNames() []string {
	var names []string
	for _, n := range strings.Split(c.EnabledSources, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
