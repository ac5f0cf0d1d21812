// Package history records evaluations in a SQL store so that runs of the
// same session can be listed later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Entry is one recorded evaluation. Error is empty when the run succeeded.
type Entry struct {
	ID        int64
	Session   string
	Seq       int
	Source    string
	Result    string
	Output    string
	Error     string
	CreatedAt time.Time
}

type Store struct {
	db      *sql.DB
	driver  string
	session string
	seq     int
}

// Open connects to dsn with one of the supported drivers and starts a new
// session.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return nil, errors.Errorf("history: unsupported driver %q", driver)
	}
	if driver == DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "history: open %s", driver)
	}
	if driver == DriverSQLite {
		// An in-memory database lives only as long as its connection.
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db, driver: driver, session: uuid.New().String()}
	slog.Debug("history store opened", slog.String("driver", driver), slog.String("session", s.session))
	return s, nil
}

// mysqlDSN turns on parseTime so created_at scans into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, "history: mysql dsn")
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (s *Store) Session() string { return s.session }

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) createTable() string {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	switch s.driver {
	case DriverMySQL:
		id = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	case DriverPostgres:
		id = "BIGSERIAL PRIMARY KEY"
	}
	return `CREATE TABLE IF NOT EXISTS evaluations (
	id ` + id + `,
	session VARCHAR(36) NOT NULL,
	seq INTEGER NOT NULL,
	source TEXT NOT NULL,
	result TEXT NOT NULL,
	output TEXT NOT NULL,
	error TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`
}

// Migrate creates the evaluations table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createTable()); err != nil {
		return errors.Wrap(err, "history: migrate")
	}
	return nil
}

// rebind rewrites ? placeholders for drivers that number them.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Record stores e under the current session with the next sequence number.
// Session, Seq and CreatedAt are filled in when zero.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.Session == "" {
		e.Session = s.session
	}
	if e.Seq == 0 {
		s.seq++
		e.Seq = s.seq
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := s.rebind(`INSERT INTO evaluations (session, seq, source, result, output, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	args := []any{e.Session, e.Seq, e.Source, e.Result, e.Output, e.Error, e.CreatedAt}

	if s.driver == DriverPostgres {
		if err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&e.ID); err != nil {
			return e, errors.Wrap(err, "history: record")
		}
	} else {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return e, errors.Wrap(err, "history: record")
		}
		if e.ID, err = res.LastInsertId(); err != nil {
			return e, errors.Wrap(err, "history: record id")
		}
	}
	slog.Debug("evaluation recorded", slog.Int64("id", e.ID), slog.Int("seq", e.Seq))
	return e, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, session, seq, source, result, output, error, created_at
FROM evaluations ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "history: list")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Session, &e.Seq, &e.Source, &e.Result, &e.Output, &e.Error, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "history: scan")
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "history: list")
}
