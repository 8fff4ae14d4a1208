// Package records keeps the outcome of every finished game.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vancomm/htmx-minesweeper/internal/config"
	"github.com/vancomm/htmx-minesweeper/internal/mines"
)

type Record struct {
	ID        int64       `json:"id"`
	Result    mines.State `json:"result"`
	Width     int         `json:"width"`
	Length    int         `json:"length"`
	Mines     int         `json:"mines"`
	Moves     int         `json:"moves"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   time.Time   `json:"ended_at"`
}

func (r Record) Playtime() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

var ErrNotFinished = errors.New("game is not finished")

// FromGame describes g, which must be in a terminal state.
func FromGame(g *mines.Game) (Record, error) {
	if !g.State().Terminal() {
		return Record{}, ErrNotFinished
	}
	params := g.Params()
	return Record{
		Result:    g.State(),
		Width:     params.Width,
		Length:    params.Length,
		Mines:     params.Mines,
		Moves:     g.Moves(),
		StartedAt: g.StartedAt().UTC(),
		EndedAt:   g.EndedAt().UTC(),
	}, nil
}

type Store interface {
	Save(ctx context.Context, r Record) (Record, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open connects the store selected by cfg.Driver. The "none" driver keeps
// nothing.
func Open(ctx context.Context, cfg config.RecordsConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenPostgres(ctx, cfg.URL)
	case "sqlite":
		return OpenSQLite(ctx, cfg.URL)
	case "none", "":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}
}

type Discard struct{}

func (Discard) Save(_ context.Context, r Record) (Record, error) { return r, nil }

func (Discard) Recent(context.Context, int) ([]Record, error) { return []Record{}, nil }

func (Discard) Close() error { return nil }
