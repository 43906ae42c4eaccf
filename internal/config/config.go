package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "GCODEMESH"

// StoreConfig holds scene store settings. Driver is sqlite or postgres.
type StoreConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"`
	DSN     string `json:"dsn" mapstructure:"dsn"`
}

type ExportConfig struct {
	WKT bool `json:"wkt" mapstructure:"wkt"`
}

type Config struct {
	LogLevel   string       `json:"logLevel" mapstructure:"logLevel"`
	Extensions []string     `json:"extensions" mapstructure:"extensions"`
	Store      StoreConfig  `json:"store" mapstructure:"store"`
	Export     ExportConfig `json:"export" mapstructure:"export"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("extensions", []string{"gcode"})

	viper.SetDefault("store.enabled", false)
	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.dsn", "gcodemesh.db")

	viper.SetDefault("export.wkt", false)
}

// Load sets default values, reads the config file at path when path is not empty, and applies
// GCODEMESH_ environment overrides, such as GCODEMESH_STORE_DSN. The file type follows its
// extension.
func Load(path string) (Config, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		err := viper.ReadInConfig()
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var cfg Config
	err := viper.Unmarshal(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set overrides a config value, as command line flags do.
func Set(key string, value any) {
	viper.Set(key, value)
}
