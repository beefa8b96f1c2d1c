//go:build !cgo_sqlite

package main

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

const sqlDriver = "sqlite"

// openDB opens dataSource with the pure-Go driver, translating the
// go-sqlite3 style "_journal_mode"/"_busy_timeout" parameters into pragmas.
func openDB(dataSource string) (*sql.DB, error) {
	path, query, found := strings.Cut(dataSource, "?")
	if !found {
		return sql.Open(sqlDriver, dataSource)
	}
	var pragmas []string
	for _, param := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(param, "=")
		switch key {
		case "_journal_mode":
			pragmas = append(pragmas, "_pragma=journal_mode("+value+")")
		case "_busy_timeout":
			pragmas = append(pragmas, "_pragma=busy_timeout("+value+")")
		default:
			pragmas = append(pragmas, param)
		}
	}
	return sql.Open(sqlDriver, path+"?"+strings.Join(pragmas, "&"))
}
