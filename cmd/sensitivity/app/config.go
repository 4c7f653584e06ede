package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/submm-lab/specsens/internal/sensitivity"
)

// Config represents the main application configuration.
type Config struct {
	Settings   Settings           `yaml:"settings"`
	Instrument string             `yaml:"instrument"`
	Atmosphere AtmosphereConfig   `yaml:"atmosphere"`
	Parameters sensitivity.Params `yaml:"parameters"`
	Storage    StorageConfig      `yaml:"storage"`

	// CLI-only modes.
	CSVFile      string `yaml:"-"` // write the full result table as CSV
	SessionID    int64  `yaml:"-"` // re-print a stored session instead of computing
	ListSessions bool   `yaml:"-"` // list stored sessions instead of computing
}

// Settings represents global application settings.
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// AtmosphereConfig points at the transmission grid dataset.
type AtmosphereConfig struct {
	GridFile string `yaml:"gridFile"`
}

// StorageConfig represents result persistence settings.
type StorageConfig struct {
	DBFile string `yaml:"dbFile"`
}

// NewConfig returns a configuration with the reference instrument defaults.
func NewConfig() *Config {
	return &Config{
		Instrument: "reference",
		Parameters: sensitivity.DefaultParams(),
	}
}

// NewConfigFromCLI builds the configuration from an optional YAML file plus
// command line flags. Flags override the file.
func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var configFile, atmFile, dbFile string
	flag.StringVar(&configFile, "c", "", "Path to the YAML configuration file")
	flag.StringVar(&atmFile, "atm", "", "Path to the atmospheric transmission grid")
	flag.StringVar(&dbFile, "db", "", "Path to the SQLite results database")
	flag.StringVar(&c.CSVFile, "o", "", "Write the full result table to this CSV file")
	flag.Int64Var(&c.SessionID, "session", 0, "Print a stored session instead of computing")
	flag.BoolVar(&c.ListSessions, "sessions", false, "List stored sessions instead of computing")
	flag.Parse()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
		if err = yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing configuration: %w", err)
		}
	}

	if atmFile != "" {
		c.Atmosphere.GridFile = atmFile
	}
	if dbFile != "" {
		c.Storage.DBFile = dbFile
	}

	var err error
	switch {
	case c.ListSessions || c.SessionID > 0:
		if c.Storage.DBFile == "" {
			err = errors.New("a results database is required to read sessions back")
		}
	case c.Atmosphere.GridFile == "":
		err = errors.New("an atmospheric grid file is required")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	return c, nil
}
