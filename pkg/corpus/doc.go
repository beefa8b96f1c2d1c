/*
Package corpus stores named source texts in a SQLite database so that models
can be rebuilt from them on demand. The caller owns the *sql.DB and picks the
driver; the schema only uses features shared by github.com/mattn/go-sqlite3
and modernc.org/sqlite.
*/
package corpus
