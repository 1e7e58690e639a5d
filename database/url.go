package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name into a DSN.
// sslmode=disable is appended unless the caller already chose a mode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, _ := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	base = strings.TrimRight(base, "/")

	dsn := fmt.Sprintf("%s/%s", base, databaseName)
	if query != "" {
		dsn = dsn + "?" + query
	}

	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if query == "" {
		return dsn + "?sslmode=disable"
	}
	return dsn + "&sslmode=disable"
}
