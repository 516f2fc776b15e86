package configuration

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Database selects where scraped orders are persisted, a remote libsql
// url takes precedence over a local sqlite file.
type Database struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Database) Enabled() bool {
	return config.File != "" || config.Url != ""
}

func (config Database) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		dsn, err := url.Parse(config.Url)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		if config.AuthToken != "" {
			query := dsn.Query()
			query.Set("authToken", config.AuthToken)
			dsn.RawQuery = query.Encode()
		}
		return sql.Open("libsql", dsn.String())
	}
	if config.File == "" {
		return nil, fmt.Errorf("no database file or url configured")
	}
	return sql.Open("sqlite", config.File)
}
