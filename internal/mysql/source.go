package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"rucost/internal/logging"
)

// Flavor identifies the server implementation behind the MySQL wire protocol
type Flavor int

const (
	FlavorMySQL Flavor = iota
	FlavorMariaDB
	FlavorTiDB
	FlavorTiDBServerless
)

func (f Flavor) String() string {
	switch f {
	case FlavorMariaDB:
		return "MariaDB"
	case FlavorTiDB:
		return "TiDB"
	case FlavorTiDBServerless:
		return "TiDB Serverless"
	default:
		return "MySQL"
	}
}

var (
	tidbVersionPattern       = regexp.MustCompile(`(?i)^\d+\.\d+\.\d+-tidb-`)
	serverlessVersionPattern = regexp.MustCompile(`(?i)^\d+\.\d+\.\d+-tidb-v\d+\.\d+\.\d+-serverless`)
	mariadbVersionPattern    = regexp.MustCompile(`(?i)^\d+\.\d+\.\d+-mariadb`)
)

// ConnectConfig holds the parameters for opening a source connection
type ConnectConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Schema   string
}

// DSN renders the go-sql-driver connection string.
func (c ConnectConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.User, c.Password, c.Host, c.Port, c.Schema)
}

// Open opens and verifies a connection to the source database.
func Open(ctx context.Context, cfg ConnectConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening connection to %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	// One run owns the connection exclusively; no pooling pressure expected.
	db.SetMaxOpenConns(0)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// DetectFlavor classifies the server by its reported version string.
func DetectFlavor(ctx context.Context, db *sql.DB) (Flavor, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return FlavorMySQL, fmt.Errorf("reading server version: %w", err)
	}

	logging.Debug("Detected server version", map[string]interface{}{"version": version})

	switch {
	case serverlessVersionPattern.MatchString(version):
		return FlavorTiDBServerless, nil
	case tidbVersionPattern.MatchString(version):
		return FlavorTiDB, nil
	case mariadbVersionPattern.MatchString(version):
		return FlavorMariaDB, nil
	default:
		return FlavorMySQL, nil
	}
}

// variableEquals reports whether a server variable has the given value.
func variableEquals(ctx context.Context, db *sql.DB, variable, want string) (bool, error) {
	var name, value string
	err := db.QueryRowContext(ctx, "SHOW VARIABLES LIKE ?", variable).Scan(&name, &value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading variable %s: %w", variable, err)
	}
	return value == want, nil
}

// PerformanceSchemaEnabled reports whether the statement instrumentation is on.
func PerformanceSchemaEnabled(ctx context.Context, db *sql.DB) (bool, error) {
	return variableEquals(ctx, db, "performance_schema", "ON")
}
