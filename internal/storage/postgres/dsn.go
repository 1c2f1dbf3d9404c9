package postgres

import (
	"fmt"
	"strings"

	"github.com/missiontracker/mission-backend/config"
)

// DSN returns cfg.DSN when set, otherwise a key/value connection string built
// from the discrete fields. Both lib/pq and pgx accept either form.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	parts := []string{
		kv("host", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		kv("user", cfg.User),
	}
	if cfg.Password != "" {
		parts = append(parts, kv("password", cfg.Password))
	}
	parts = append(parts, kv("dbname", cfg.Name), kv("sslmode", sslMode))
	return strings.Join(parts, " ")
}

func kv(key, value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return key + "=" + value
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return key + "='" + r.Replace(value) + "'"
}
