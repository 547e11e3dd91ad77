package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"rucost/internal/logging"
)

// InitConfig initializes the Viper configuration
func InitConfig() error {
	// Set config name and type
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config search paths
	viper.AddConfigPath(".") // Current directory only

	// Set environment variable prefix
	viper.SetEnvPrefix("RUCOST")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults for all configuration values
	viper.SetDefault("mysql.host", "localhost")
	viper.SetDefault("mysql.port", 3306)
	viper.SetDefault("mysql.user", "root")
	viper.SetDefault("mysql.password", "")
	viper.SetDefault("app.max_workers", 8)
	viper.SetDefault("app.log_format", "text")
	viper.SetDefault("app.log_level", "INFO")
	viper.SetDefault("estimate.region", "us-east-1")
	viper.SetDefault("estimate.sample_duration", 60)
	viper.SetDefault("confidence.min_window_seconds", 60)
	viper.SetDefault("sample.scan_ratio", 4.0)

	// Try to read config file but don't error if not found
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error if it's not a missing config file
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is okay, we'll use defaults and env vars
		logging.Debug("No config file found, using defaults and environment variables", nil)
	} else {
		logging.Debug("Loaded config file", map[string]interface{}{
			"path": viper.ConfigFileUsed(),
		})
	}

	return nil
}

// SetConfigFile sets a custom config file path and reloads the configuration
func SetConfigFile(configFile string) error {
	// Set the config file path
	viper.SetConfigFile(configFile)

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Apply copies the effective viper values into the global config instance.
// Flag bindings must be registered before calling this.
func Apply() {
	Config.Host = viper.GetString("mysql.host")
	Config.Port = viper.GetInt("mysql.port")
	Config.User = viper.GetString("mysql.user")
	Config.Password = viper.GetString("mysql.password")
	Config.MaxWorkers = viper.GetInt("app.max_workers")
	Config.LogFormat = viper.GetString("app.log_format")
	Config.LogLevel = viper.GetString("app.log_level")
	Config.Region = viper.GetString("estimate.region")
	Config.SampleDurationSeconds = viper.GetInt("estimate.sample_duration")
	Config.MinWindowSeconds = viper.GetInt("confidence.min_window_seconds")
	Config.ScanRatio = viper.GetFloat64("sample.scan_ratio")
}
