package db

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// DialectName returns the gorm dialector name, or "" for a nil connection.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether conn talks to SQLite.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}

// IsSQLiteDSN reports whether dsn addresses a SQLite file rather than a server.
func IsSQLiteDSN(dsn string) bool {
	lowered := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lowered, "file:") || strings.HasSuffix(lowered, ".db")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsAny builds a case-insensitive "term occurs in any column" condition.
// LIKE wildcards inside term match literally. The returned args line up with
// the placeholders of the clause.
func ContainsAny(conn *gorm.DB, term string, columns ...string) (string, []any) {
	if len(columns) == 0 {
		return "", nil
	}
	sqlite := IsSQLite(conn)
	pattern := "%" + likeEscaper.Replace(term) + "%"
	if sqlite {
		pattern = strings.ToLower(pattern)
	}
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		if sqlite {
			parts = append(parts, "LOWER("+column+`) LIKE ? ESCAPE '\'`)
		} else {
			parts = append(parts, column+` ILIKE ? ESCAPE '\'`)
		}
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
