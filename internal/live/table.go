// Package live hosts the one shared game. [Table] is the single point every
// mutation passes through, so the engine never sees two operations at once
// and viewers receive fragments in the order the board changed.
package live

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/htmx-minesweeper/internal/mines"
	"github.com/vancomm/htmx-minesweeper/internal/records"
	"github.com/vancomm/htmx-minesweeper/internal/render"
)

var ErrOutOfBounds = errors.New("cell position outside the board")

type Broadcaster interface {
	Broadcast(message []byte)
}

type Recorder interface {
	Save(ctx context.Context, r records.Record) (records.Record, error)
}

type Table struct {
	log      logrus.FieldLogger
	renderer *render.Renderer
	out      Broadcaster
	recorder Recorder

	mu   sync.Mutex
	game *mines.Game
}

func NewTable(
	log logrus.FieldLogger,
	game *mines.Game,
	renderer *render.Renderer,
	out Broadcaster,
	recorder Recorder,
) *Table {
	return &Table{
		log:      log,
		game:     game,
		renderer: renderer,
		out:      out,
		recorder: recorder,
	}
}

func (t *Table) Params() mines.Params {
	return t.game.Params()
}

func (t *Table) Snapshot() mines.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.Snapshot()
}

func (t *Table) Page(w io.Writer) error {
	return t.renderer.Page(w, t.Snapshot())
}

func (t *Table) Expose(ctx context.Context, c mines.Coord) (mines.Update, error) {
	return t.move(ctx, "expose", c, t.game.Expose)
}

func (t *Table) Flag(ctx context.Context, c mines.Coord) (mines.Update, error) {
	return t.move(ctx, "flag", c, t.game.Flag)
}

func (t *Table) move(
	ctx context.Context, name string, c mines.Coord, op func(mines.Coord) mines.Update,
) (mines.Update, error) {
	upd, finished, err := t.apply(name, c, op)
	if err != nil {
		return upd, err
	}
	if finished != nil {
		t.record(ctx, *finished)
	}
	return upd, nil
}

// apply runs op under the table lock and broadcasts the result before
// releasing it. finished describes the game if op ended it.
func (t *Table) apply(
	name string, c mines.Coord, op func(mines.Coord) mines.Update,
) (upd mines.Update, finished *records.Record, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.game.InBounds(c) {
		return upd, nil, ErrOutOfBounds
	}

	before := t.game.State()
	upd = op(c)

	log := t.log.WithFields(logrus.Fields{
		"move":    name,
		"cell":    c.String(),
		"state":   upd.State.String(),
		"changed": len(upd.Changed),
	})
	log.Debug("move")

	if len(upd.Changed) == 0 {
		return upd, nil, nil
	}

	fragment, err := t.renderer.Update(upd)
	if err != nil {
		return upd, nil, err
	}
	t.out.Broadcast(fragment)

	if !before.Terminal() && upd.State.Terminal() {
		log.Info("game over")
		r, err := records.FromGame(t.game)
		if err != nil {
			return upd, nil, err
		}
		finished = &r
	}
	return upd, finished, nil
}

// record saves r outside the table lock; storage trouble never reaches the
// players.
func (t *Table) record(ctx context.Context, r records.Record) {
	saved, err := t.recorder.Save(ctx, r)
	if err != nil {
		t.log.WithError(err).Error("unable to save game record")
		return
	}
	t.log.WithFields(logrus.Fields{
		"record":   saved.ID,
		"result":   saved.Result.String(),
		"playtime": saved.Playtime().String(),
	}).Debug("saved game record")
}

func (t *Table) Restart() (mines.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.game.Restart()
	fragment, err := t.renderer.Restart(snap)
	if err != nil {
		return snap, err
	}
	t.out.Broadcast(fragment)
	t.log.Info("game restarted")
	return snap, nil
}
