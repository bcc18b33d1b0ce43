package synthsink

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/value"
)

// SQLiteSink persists rewrites and counter-examples to a SQLite database
// via the pure-Go modernc.org/sqlite driver — no cgo toolchain required at
// build time, matching the rest of this module's dependency-free build.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (creating if necessary) a SQLite database at path
// and ensures its schema exists.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("synthsink: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("synthsink: migrate schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS rewrites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL,
	from_expr TEXT NOT NULL,
	to_expr TEXT NOT NULL,
	from_cost TEXT NOT NULL,
	to_cost TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS counter_examples (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL,
	binding TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
`

func (s *SQLiteSink) RecordRewrite(jobID string, from, to expr.Exp, fromCost, toCost cost.Cost, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO rewrites (job_id, from_expr, to_expr, from_cost, to_cost, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, from.String(), to.String(), fromCost.String(), toCost.String(), at,
	)
	return err
}

func (s *SQLiteSink) RecordCounterExample(jobID string, ex example.Example, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO counter_examples (job_id, binding, recorded_at) VALUES (?, ?, ?)`,
		jobID, formatExample(ex), at,
	)
	return err
}

func (s *SQLiteSink) Close() error { return s.db.Close() }

func formatExample(ex example.Example) string {
	out := "{"
	first := true
	for name, v := range ex {
		if !first {
			out += ", "
		}
		first = false
		out += name + "=" + formatValue(v)
	}
	return out + "}"
}

func formatValue(v value.Value) string { return v.String() }
