package estimate

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rucost/internal/config"
	"rucost/internal/estimate"
	"rucost/internal/logging"
	"rucost/internal/mysql"
	"rucost/internal/output"
	pricingconfig "rucost/internal/pricing/config"
	"rucost/internal/worker"
)

type estimateOptions struct {
	host           string
	port           int
	user           string
	password       string
	database       string
	region         string
	analyze        bool // sample the live workload
	sampleDuration int  // sampling window, seconds
	analyzeTables  bool // run ANALYZE TABLE before collecting
	assumeYes      bool
	outputFormat   string // human, json or yaml
}

// NewEstimateCmd creates the estimate command
func NewEstimateCmd() *cobra.Command {
	opts := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the monthly serverless cost of a database",
		Long: `Estimate what a MySQL-compatible database would cost per month on a
serverless cluster billed in request units and row-based storage.

By default only schema statistics are read, which yields a storage charge and
a low-confidence request-unit heuristic. Pass --analyze to additionally sample
the live workload through performance_schema for a duration and price the
observed traffic.

Examples:
  # Storage-only estimate of the local "shop" schema
  rucost estimate -D shop

  # Sample the live workload for five minutes and price it for eu-central-1
  rucost estimate -D shop --analyze --sample-duration 300 -r eu-central-1

  # Refresh optimizer statistics first, machine-readable output
  rucost estimate -D shop --analyze-tables --yes -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "MySQL server host")
	cmd.Flags().IntVarP(&opts.port, "port", "P", 0, "MySQL server port")
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "MySQL user name")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "MySQL password")
	cmd.Flags().StringVarP(&opts.database, "database", "D", "", "Schema to estimate (required)")
	cmd.Flags().StringVarP(&opts.region, "region", "r", "", "Pricing region (see 'rucost regions')")
	cmd.Flags().BoolVarP(&opts.analyze, "analyze", "a", false, "Sample the live workload through performance_schema")
	cmd.Flags().IntVar(&opts.sampleDuration, "sample-duration", 0, "Sampling window in seconds (implies --analyze)")
	cmd.Flags().BoolVar(&opts.analyzeTables, "analyze-tables", false, "Run ANALYZE TABLE on every table before collecting statistics")
	cmd.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "Skip the --analyze-tables confirmation prompt")
	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	_ = cmd.MarkFlagRequired("database")

	return cmd
}

func runEstimate(cmd *cobra.Command, opts *estimateOptions) error {
	applyDefaults(cmd, opts)

	format, err := output.ParseFormat(opts.outputFormat)
	if err != nil {
		return err
	}

	// Region validation happens before anything touches the server, so a
	// typo fails in milliseconds instead of after a sampling window.
	if _, err := pricingconfig.Lookup(opts.region); err != nil {
		return err
	}

	if cmd.Flags().Changed("sample-duration") {
		opts.analyze = true
	}
	if opts.analyze && opts.sampleDuration <= 0 {
		return fmt.Errorf("--sample-duration must be greater than zero, got %d", opts.sampleDuration)
	}
	if opts.analyze && opts.sampleDuration < config.Config.MinWindowSeconds {
		logging.Warn("Sampling window is shorter than the representative minimum; the request-unit charge will be reported as a range", map[string]interface{}{
			"sample_duration": opts.sampleDuration,
			"min_window":      config.Config.MinWindowSeconds,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := mysql.Open(ctx, mysql.ConnectConfig{
		Host:     opts.host,
		Port:     opts.port,
		User:     opts.user,
		Password: opts.password,
		Schema:   opts.database,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.analyzeTables {
		if !opts.assumeYes && !confirm(cmd, fmt.Sprintf("ANALYZE TABLE will be run on every table in %q and may briefly load the server. Continue?", opts.database)) {
			return fmt.Errorf("aborted")
		}
		if err := mysql.AnalyzeTables(ctx, db, opts.database); err != nil {
			return err
		}
	}

	if err := worker.InitSharedPool(config.Config.MaxWorkers); err != nil {
		return err
	}

	engine, err := estimate.New(db, estimate.Options{
		Schema:         opts.database,
		Region:         opts.region,
		Sample:         opts.analyze,
		SampleDuration: time.Duration(opts.sampleDuration) * time.Second,
		ScanRatio:      config.Config.ScanRatio,
		MinWindow:      time.Duration(config.Config.MinWindowSeconds) * time.Second,
		ShowProgress:   format == output.FormatHuman && opts.analyze,
	})
	if err != nil {
		return err
	}

	report, err := engine.Run(ctx)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), report, format)
}

// applyDefaults fills unset flags from the layered defaults: the option file
// (~/.my.cnf [client]) first, then the application config.
func applyDefaults(cmd *cobra.Command, opts *estimateOptions) {
	defaults, err := mysql.LoadClientDefaults()
	if err != nil {
		logging.Warn("Failed to read MySQL option file", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if !cmd.Flags().Changed("host") {
		opts.host = firstNonEmpty(defaults.Host, config.Config.Host)
	}
	if !cmd.Flags().Changed("port") {
		if defaults.Port != 0 {
			opts.port = defaults.Port
		} else {
			opts.port = config.Config.Port
		}
	}
	if !cmd.Flags().Changed("user") {
		opts.user = firstNonEmpty(defaults.User, config.Config.User)
	}
	if !cmd.Flags().Changed("password") {
		opts.password = firstNonEmpty(defaults.Password, config.Config.Password)
	}
	if !cmd.Flags().Changed("region") {
		opts.region = config.Config.Region
	}
	if !cmd.Flags().Changed("sample-duration") {
		opts.sampleDuration = config.Config.SampleDurationSeconds
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
