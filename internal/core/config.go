package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ArchiveConfig describes one archive whose tracks are written out as bitmaps.
type ArchiveConfig struct {
	// Path to the archive, relative to source_dir unless absolute.
	Path string `mapstructure:"path"`
	// Append the character name of each track to the output file name.
	Names bool `mapstructure:"names"`
	// Palette archive to use instead of palette.archive.
	Palette string `mapstructure:"palette"`
}

// Config contains all of the configuration options available to nb3cut.
type Config struct {
	// Full path to file to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// Directory containing the archives.
	SourceDir string `mapstructure:"source_dir"`
	// Directory the bitmaps are written to. Created if it does not exist.
	OutputDir string `mapstructure:"output_dir"`
	// Character encoding used for names in output files. Options: utf-8, shift_jis, euc-jp
	FilenameEncoding string `mapstructure:"filename_encoding"`
	// Largest extracted size a single track may declare.
	MaxTrackSize int32 `mapstructure:"max_track_size"`
	// Keep going with the next archive when one fails.
	ContinueOnError bool `mapstructure:"continue_on_error"`

	Palette struct {
		// Archive holding the palette track.
		Archive string `mapstructure:"archive"`
		// Index of the palette track within the archive.
		Track int `mapstructure:"track"`
	} `mapstructure:"palette"`

	Archives []ArchiveConfig `mapstructure:"archives"`

	Catalog struct {
		// Record every extracted track in a database.
		Enabled bool `mapstructure:"enabled"`
		// Options: sqlite, postgres
		Engine string `mapstructure:"engine"`
		// Database file used by the sqlite engine.
		Filename string `mapstructure:"filename"`
		// Connection settings used by the postgres engine.
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Name     string `mapstructure:"name"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"catalog"`

	Debugging struct {
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "NB3CUT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file_path", "")
	v.SetDefault("source_dir", ".")
	v.SetDefault("output_dir", ".")
	v.SetDefault("filename_encoding", "utf-8")
	v.SetDefault("max_track_size", 16<<20)
	v.SetDefault("continue_on_error", false)
	v.SetDefault("palette.archive", "palette.nb3")
	v.SetDefault("palette.track", 1)
	v.SetDefault("archives", []map[string]interface{}{
		{"path": "Kao.nb3", "names": true},
		{"path": "Kao2.nb3"},
		{"path": "Kao3.nb3"},
	})
	v.SetDefault("catalog.enabled", false)
	v.SetDefault("catalog.engine", "sqlite")
	v.SetDefault("catalog.filename", "nb3cut.db")
	v.SetDefault("catalog.host", "localhost")
	v.SetDefault("catalog.port", 5432)
	v.SetDefault("catalog.name", "nb3cut")
	v.SetDefault("catalog.username", "")
	v.SetDefault("catalog.password", "")
	v.SetDefault("catalog.sslmode", "disable")
	v.SetDefault("debugging.database_logging_enabled", false)
}

// LoadConfig reads config.yaml from configPath. A missing file is not an error;
// the defaults reproduce the stock palette.nb3 + Kao*.nb3 layout. Any flags in
// flags override both the file and the environment.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, catalog.engine can be set using: <envVarPrefix>_CATALOG_ENGINE
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	// Flags use dashes where config keys use underscores (--output-dir -> output_dir).
	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("error binding flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	return config, nil
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a database URL generated from the provided config values.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Catalog.Host,
		c.Catalog.Port,
		c.Catalog.Name,
		c.Catalog.Username,
		c.Catalog.Password,
		c.Catalog.SSLMode,
	)
}

// CatalogDataSource returns the data source for the configured catalog engine.
func (c *Config) CatalogDataSource() string {
	if c.Catalog.Engine == "postgres" {
		return c.DatabaseURL()
	}
	return c.Catalog.Filename
}

// PaletteArchive returns the palette archive used for archive.
func (c *Config) PaletteArchive(archive ArchiveConfig) string {
	if archive.Palette != "" {
		return archive.Palette
	}
	return c.Palette.Archive
}
