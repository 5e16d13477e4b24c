package util

import (
	"database/sql"
	"time"
)

// StringToNullString maps an empty string to SQL NULL. Optional question
// columns (code language, starter code) are stored as NULL rather than
// empty CLOBs.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// TimeToNullTime maps the zero time to SQL NULL, used for timestamps
// that are unset until an event happens (attempt end, last import).
func TimeToNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
