package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL points a server URL at databaseName. Any database
// already in the path is replaced, and sslmode=disable is added unless the
// URL sets a mode. A URL that does not parse is returned unchanged so the
// pool reports the error.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}

	// Swap the database path, keeping credentials and host
	u.Path = "/" + strings.Trim(databaseName, "/")
	u.RawPath = ""

	// Local and container databases run without TLS
	query := u.Query()
	if !query.Has("sslmode") {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String()
}
