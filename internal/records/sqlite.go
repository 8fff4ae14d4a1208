package records

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/htmx-minesweeper/internal/mines"
)

type SQLite struct {
	db *sql.DB
}

const createGameRecordTable = `
CREATE TABLE IF NOT EXISTS game_record (
	game_record_id	INTEGER	PRIMARY KEY AUTOINCREMENT,
	result			TEXT	NOT NULL,
	width			INTEGER	NOT NULL,
	length			INTEGER	NOT NULL,
	mines			INTEGER	NOT NULL,
	moves			INTEGER	NOT NULL,
	started_at		INTEGER	NOT NULL,
	ended_at		INTEGER	NOT NULL
);`

// OpenSQLite opens or creates the database file at path. Timestamps are
// stored as unix milliseconds.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	// one connection, so ":memory:" databases are shared by every query
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createGameRecordTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create game_record table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, r Record) (Record, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO game_record (
			result, width, length, mines, moves, started_at, ended_at
		) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		r.Result.String(), r.Width, r.Length, r.Mines, r.Moves,
		r.StartedAt.UnixMilli(), r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("unable to insert game record: %w", err)
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("unable to read game record id: %w", err)
	}
	return r, nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT game_record_id, result, width, length, mines, moves, started_at, ended_at
		FROM game_record
		ORDER BY ended_at DESC, game_record_id DESC
		LIMIT ?;`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch game records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			r                  Record
			result             string
			startedAt, endedAt int64
		)
		if err := rows.Scan(
			&r.ID, &result, &r.Width, &r.Length, &r.Mines, &r.Moves,
			&startedAt, &endedAt,
		); err != nil {
			return nil, err
		}
		if r.Result, err = mines.ParseState(result); err != nil {
			return nil, fmt.Errorf("game_record %d: %w", r.ID, err)
		}
		r.StartedAt = time.UnixMilli(startedAt).UTC()
		r.EndedAt = time.UnixMilli(endedAt).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
