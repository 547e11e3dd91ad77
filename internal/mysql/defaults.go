package mysql

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"

	"rucost/internal/logging"
)

// ClientDefaults carries connection defaults read from the MySQL client
// option file. Empty fields mean the option file did not set them.
type ClientDefaults struct {
	Host     string
	Port     int
	User     string
	Password string
}

// optionFilePath returns the per-user MySQL option file location.
func optionFilePath() (string, error) {
	if path := os.Getenv("MYSQL_HOME"); path != "" {
		return filepath.Join(path, "my.cnf"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".my.cnf"), nil
}

// LoadClientDefaults reads the [client] section of ~/.my.cnf, the same file
// the stock mysql client consults. A missing file is not an error.
func LoadClientDefaults() (ClientDefaults, error) {
	var defaults ClientDefaults

	path, err := optionFilePath()
	if err != nil {
		return defaults, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}

	file, err := ini.Load(path)
	if err != nil {
		return defaults, err
	}

	section := file.Section("client")
	defaults.Host = section.Key("host").String()
	defaults.User = section.Key("user").String()
	defaults.Password = section.Key("password").String()
	if portStr := section.Key("port").String(); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			defaults.Port = port
		}
	}

	logging.Debug("Loaded client option file", map[string]interface{}{
		"path": path,
	})
	return defaults, nil
}
