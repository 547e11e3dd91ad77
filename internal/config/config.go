package config

import "runtime"

// GlobalConfig holds the global configuration for the application
type GlobalConfig struct {
	// Host is the MySQL server host
	Host string

	// Port is the MySQL server port
	Port int

	// User is the MySQL account name
	User string

	// Password is the MySQL account password
	Password string

	// MaxWorkers defines the maximum number of concurrent metadata queries
	MaxWorkers int

	// LogFormat is the format for logging
	LogFormat string

	// LogLevel is the minimum severity that gets logged
	LogLevel string

	// Region is the serverless region used to price the workload
	Region string

	// SampleDurationSeconds is the workload sampling window length
	SampleDurationSeconds int

	// MinWindowSeconds is the shortest sampling window considered representative
	MinWindowSeconds int

	// ScanRatio is the examined/sent ratio above which a read counts as a range scan
	ScanRatio float64
}

// Config is the global configuration instance
var Config = &GlobalConfig{
	Host:                  "localhost",
	Port:                  3306,
	User:                  "root",
	MaxWorkers:            runtime.NumCPU() * 4, // metadata queries are I/O bound
	Region:                "us-east-1",
	SampleDurationSeconds: 60,
	MinWindowSeconds:      60,
	ScanRatio:             4,
}
