package cmd

import (
	"strings"

	"rucost/cmd/estimate"
	"rucost/cmd/regions"
	"rucost/cmd/version"
	"rucost/internal/config"
	"rucost/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	var configFile string

	// Initialize config
	if err := config.InitConfig(); err != nil {
		return err
	}

	rootCmd := &cobra.Command{
		Use:   "rucost",
		Short: "rucost - serverless cost projection for MySQL workloads",
		Long: `rucost inspects a running MySQL-compatible database and projects what the
same schema and workload would cost per month on a serverless cluster billed
in request units and row-based storage.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Set config file if specified
			if configFile != "" {
				if err := config.SetConfigFile(configFile); err != nil {
					logging.Warn("Failed to load config file", map[string]interface{}{
						"config_file": configFile,
						"error":       err.Error(),
					})
				}
			}
			config.Apply()

			// Set log format
			logFormat := logging.Text
			if config.Config.LogFormat == "json" {
				logFormat = logging.JSON
			}

			// Set log level
			var level logging.Level
			switch strings.ToUpper(config.Config.LogLevel) {
			case "DEBUG":
				level = logging.DEBUG
			case "INFO":
				level = logging.INFO
			case "WARN":
				level = logging.WARN
			case "ERROR":
				level = logging.ERROR
			default:
				level = logging.INFO
			}

			logging.Configure(logging.LogConfig{
				Level:  level,
				Format: logFormat,
			})
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().Int("max-workers", config.Config.MaxWorkers, "Maximum number of concurrent metadata queries")
	rootCmd.PersistentFlags().String("log-format", "text", "Log output format (text or json)")
	rootCmd.PersistentFlags().String("log-level", "INFO",
		"Set logging level (DEBUG, INFO, WARN, ERROR)")

	// Flags take precedence over config file and environment values
	_ = viper.BindPFlag("app.max_workers", rootCmd.PersistentFlags().Lookup("max-workers"))
	_ = viper.BindPFlag("app.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("app.log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add commands
	rootCmd.AddCommand(estimate.NewEstimateCmd())
	rootCmd.AddCommand(regions.NewRegionsCmd())
	rootCmd.AddCommand(version.NewVersionCmd())

	return rootCmd.Execute()
}
