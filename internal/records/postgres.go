package records

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/htmx-minesweeper/internal/database"
	"github.com/vancomm/htmx-minesweeper/internal/mines"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Postgres struct {
	db *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, _, err := database.ConnectAndMigrate(ctx, url, migrations, "migrations")
	if err != nil {
		return nil, err
	}
	return &Postgres{db: pool}, nil
}

type gameRecordRow struct {
	GameRecordId int64     `db:"game_record_id"`
	Result       string    `db:"result"`
	Width        int       `db:"width"`
	Length       int       `db:"length"`
	Mines        int       `db:"mines"`
	Moves        int       `db:"moves"`
	StartedAt    time.Time `db:"started_at"`
	EndedAt      time.Time `db:"ended_at"`
}

func (row gameRecordRow) record() (Record, error) {
	result, err := mines.ParseState(row.Result)
	if err != nil {
		return Record{}, fmt.Errorf("game_record %d: %w", row.GameRecordId, err)
	}
	return Record{
		ID:        row.GameRecordId,
		Result:    result,
		Width:     row.Width,
		Length:    row.Length,
		Mines:     row.Mines,
		Moves:     row.Moves,
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
	}, nil
}

const selectGameRecord = `
SELECT game_record_id, result, width, length, mines, moves, started_at, ended_at
FROM game_record`

func (p *Postgres) Save(ctx context.Context, r Record) (Record, error) {
	args := pgx.NamedArgs{
		"result":     r.Result.String(),
		"width":      r.Width,
		"length":     r.Length,
		"mines":      r.Mines,
		"moves":      r.Moves,
		"started_at": r.StartedAt,
		"ended_at":   r.EndedAt,
	}
	rows, _ := p.db.Query(
		ctx,
		`INSERT INTO game_record (
			result, width, length, mines, moves, started_at, ended_at
		)
		VALUES (
			@result, @width, @length, @mines, @moves, @started_at, @ended_at
		)
		RETURNING game_record_id, result, width, length, mines, moves, started_at, ended_at;`,
		args,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[gameRecordRow])
	if err != nil {
		return Record{}, fmt.Errorf("unable to insert game record: %w", err)
	}
	return row.record()
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, _ := p.db.Query(
		ctx,
		selectGameRecord+" ORDER BY ended_at DESC, game_record_id DESC LIMIT @limit;",
		pgx.NamedArgs{"limit": limit},
	)
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[gameRecordRow])
	if err != nil {
		return nil, fmt.Errorf("unable to fetch game records: %w", err)
	}
	records := make([]Record, 0, len(collected))
	for _, row := range collected {
		r, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
