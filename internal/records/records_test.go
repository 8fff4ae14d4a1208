package records

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/htmx-minesweeper/internal/config"
	"github.com/vancomm/htmx-minesweeper/internal/mines"
)

func setupTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(result mines.State, ended time.Time) Record {
	return Record{
		Result:    result,
		Width:     8,
		Length:    8,
		Mines:     8,
		Moves:     12,
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   ended,
	}
}

func TestSQLiteReadEmpty(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteSaveAndRecent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first, err := s.Save(ctx, record(mines.Lost, base))
	require.NoError(t, err)
	second, err := s.Save(ctx, record(mines.Won, base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = s.Save(ctx, record(mines.Lost, base.Add(-time.Hour)))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0])
	assert.Equal(t, first, got[1])
	assert.Equal(t, time.Minute, got[0].Playtime())
}

func TestSQLiteReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = s.Save(ctx, record(mines.Won, time.Now().UTC().Truncate(time.Millisecond)))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFromGame(t *testing.T) {
	g, err := mines.NewGame(mines.DefaultParams, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	_, err = FromGame(g)
	assert.ErrorIs(t, err, ErrNotFinished)

	g.Expose(mines.Coord{X: 0, Y: 0})
	for x := range 8 {
		for y := range 8 {
			if g.State().Terminal() {
				break
			}
			g.Expose(mines.Coord{X: x, Y: y})
		}
	}
	require.True(t, g.State().Terminal())

	r, err := FromGame(g)
	require.NoError(t, err)
	assert.Equal(t, g.State(), r.Result)
	assert.Equal(t, 8, r.Width)
	assert.Equal(t, 8, r.Mines)
	assert.Equal(t, g.Moves(), r.Moves)
	assert.False(t, r.EndedAt.Before(r.StartedAt))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.RecordsConfig{Driver: "none"})
	require.NoError(t, err)
	saved, err := s.Save(ctx, record(mines.Won, time.Now()))
	require.NoError(t, err)
	assert.Zero(t, saved.ID)
	got, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	s, err = Open(ctx, config.RecordsConfig{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Save(ctx, record(mines.Lost, time.Now()))
	require.NoError(t, err)
	got, err = s.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = Open(ctx, config.RecordsConfig{Driver: "mongo"})
	assert.ErrorIs(t, err, config.ErrUnknownDriver)
}
