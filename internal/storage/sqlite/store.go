package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/akulkarni/oddsedge/internal/odds"
)

const defaultPath = "data/oddsedge.db"

// Store wraps a SQLite DB connection holding the quotes snapshot.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateTables ensures the quotes table exists.
func (s *Store) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, quotesSchemaSQL)
	return err
}

// DropTables removes the quotes table.
func (s *Store) DropTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS quotes;`)
	return err
}

// ClearTables truncates the quotes table.
func (s *Store) ClearTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quotes;`)
	return err
}

// Migrate drops the legacy odds table (if any) and creates the current schema.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`DROP TABLE IF EXISTS odds;`,
		quotesSchemaSQL,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// The line column stores "" for quotes without a line (h2h) so it can take
// part in the primary key; readers map "" back to nil.
const quotesSchemaSQL = `
CREATE TABLE IF NOT EXISTS quotes (
	sportsbook TEXT NOT NULL,
	league TEXT NOT NULL,
	event TEXT NOT NULL,
	market TEXT NOT NULL,
	outcome TEXT NOT NULL,
	line TEXT NOT NULL DEFAULT '',
	odds_decimal REAL NOT NULL,
	odds_american TEXT,
	commence_time TEXT,
	event_date TEXT,
	last_updated TEXT NOT NULL,
	PRIMARY KEY (sportsbook, league, event, market, outcome, line)
);
CREATE INDEX IF NOT EXISTS quotes_event_idx ON quotes(event, market);
`

const quoteUpsertSQL = `
INSERT INTO quotes (
	sportsbook, league, event, market, outcome, line,
	odds_decimal, odds_american, commence_time, event_date, last_updated
) VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(sportsbook, league, event, market, outcome, line) DO UPDATE SET
	odds_decimal=excluded.odds_decimal,
	odds_american=excluded.odds_american,
	commence_time=excluded.commence_time,
	event_date=excluded.event_date,
	last_updated=excluded.last_updated;
`

// UpsertQuotes inserts or refreshes quote rows in one transaction. Each row is
// keyed by its full identity tuple so a repeated fetch only moves the price
// and timestamps.
func (s *Store) UpsertQuotes(ctx context.Context, quotes []odds.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, quoteUpsertSQL)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, q := range quotes {
		line := ""
		if q.Line != nil {
			line = *q.Line
		}
		if _, err := stmt.ExecContext(
			ctx,
			q.Sportsbook,
			q.League,
			q.Event,
			q.Market,
			q.Outcome,
			line,
			q.Price,
			q.American,
			formatTime(q.CommenceTime),
			q.EventDate,
			now,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ListQuotes loads the full snapshot.
func (s *Store) ListQuotes(ctx context.Context) ([]odds.Quote, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT sportsbook, league, event, market, outcome, line,
       odds_decimal, odds_american, commence_time, event_date, last_updated
FROM quotes`)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []odds.Quote
	for rows.Next() {
		var (
			q           odds.Quote
			line        string
			american    sql.NullString
			commence    sql.NullString
			eventDate   sql.NullString
			lastUpdated string
		)
		if err := rows.Scan(
			&q.Sportsbook, &q.League, &q.Event, &q.Market, &q.Outcome, &line,
			&q.Price, &american, &commence, &eventDate, &lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		if line != "" {
			l := line
			q.Line = &l
		}
		q.American = american.String
		q.EventDate = eventDate.String
		q.CommenceTime = parseTime(commence.String)
		if t := parseTime(lastUpdated); t != nil {
			q.LastUpdated = *t
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// DistinctLeagues returns the lower-cased league keys present in the store.
func (s *Store) DistinctLeagues(ctx context.Context) ([]string, error) {
	return s.distinctLower(ctx, "league")
}

// DistinctMarkets returns the lower-cased market keys present in the store.
func (s *Store) DistinctMarkets(ctx context.Context) ([]string, error) {
	return s.distinctLower(ctx, "market")
}

// DistinctSportsbooks returns sportsbook titles as stored (case preserved).
func (s *Store) DistinctSportsbooks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT sportsbook FROM quotes WHERE sportsbook != '' ORDER BY sportsbook`)
	if err != nil {
		return nil, fmt.Errorf("distinct sportsbooks: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (s *Store) distinctLower(ctx context.Context, column string) ([]string, error) {
	// column is one of our own identifiers, never user input.
	query := fmt.Sprintf(
		`SELECT DISTINCT lower(%s) FROM quotes WHERE %s != '' ORDER BY 1`, column, column)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
