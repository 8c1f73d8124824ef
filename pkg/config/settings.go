// pkg/config/settings.go

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment setting
const EnvPrefix = "INSPECT"

// Settings holds the environment driven options of a run
type Settings struct {
	// CompressReport packs the report and the trace log into an encrypted zip
	CompressReport bool `envconfig:"COMPRESS_REPORT" default:"false"`

	// ReportPassword protects the zip archive
	ReportPassword string `envconfig:"REPORT_PASSWORD" default:"cosan123"`

	// RemoveUncompressed deletes the plain files once archived
	RemoveUncompressed bool `envconfig:"REMOVE_UNCOMPRESSED" default:"false"`

	// LogDir is where trace logs are written
	LogDir string `envconfig:"LOG_DIR" default:"logs"`

	// ReportDir is where AsciiDoc and JSON reports are written
	ReportDir string `envconfig:"REPORT_DIR" default:"reports"`
}

// LoadSettings reads an optional .env file and then the process environment
func LoadSettings(dotEnv string) (Settings, error) {
	if dotEnv != "" {
		if _, err := os.Stat(dotEnv); err == nil {
			if err := godotenv.Load(dotEnv); err != nil {
				return Settings{}, fmt.Errorf("failed to load %s: %w", dotEnv, err)
			}
		}
	}

	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Settings{}, fmt.Errorf("invalid environment settings: %w", err)
	}
	return s, nil
}
