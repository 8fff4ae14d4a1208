package mines

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWithMines(width, length int, mines ...Coord) *Board {
	b := NewBoard(width, length)
	for _, c := range mines {
		b.SetMine(c)
	}
	return b
}

// expectedRegion walks the zero region around start recursively and returns
// the region plus its numbered border.
func expectedRegion(b *Board, start Coord) map[Coord]bool {
	region := map[Coord]bool{}
	var walk func(c Coord)
	walk = func(c Coord) {
		if region[c] {
			return
		}
		region[c] = true
		if b.CountNearby(c) > 0 {
			return
		}
		for _, n := range b.Neighbors(c) {
			walk(n)
		}
	}
	walk(start)
	return region
}

func TestExposeNumberedCellStops(t *testing.T) {
	b := boardWithMines(8, 8, Coord{1, 1})
	changed := ExposeCell(b, Coord{0, 0}, make(Visited))
	assert.Equal(t, []Coord{{0, 0}}, changed)
	assert.Equal(t, Cell{Clicked: true, Nearby: 1}, b.Get(Coord{0, 0}))
	assert.False(t, b.Get(Coord{0, 1}).Clicked)
}

func TestExposeEmptyBoardRevealsEverything(t *testing.T) {
	b := NewBoard(5, 4)
	changed := ExposeCell(b, Coord{0, 0}, make(Visited))
	assert.Len(t, changed, 20)
	assert.Equal(t, Coord{0, 0}, changed[0])
	for _, column := range b.Snapshot() {
		for _, cell := range column {
			assert.Equal(t, Cell{Clicked: true}, cell)
		}
	}
}

func TestExposeCornerCascade(t *testing.T) {
	// wall of mines on column 3 splits the board
	b := boardWithMines(8, 8,
		Coord{3, 0}, Coord{3, 1}, Coord{3, 2}, Coord{3, 3},
		Coord{3, 4}, Coord{3, 5}, Coord{3, 6}, Coord{3, 7},
	)
	changed := ExposeCell(b, Coord{0, 0}, make(Visited))

	assert.Len(t, changed, 24)
	for _, c := range changed {
		assert.Less(t, c.X, 3)
	}
	for y := range 8 {
		assert.Equal(t, 0, b.Get(Coord{0, y}).Nearby)
		assert.Equal(t, 0, b.Get(Coord{1, y}).Nearby)
		assert.Positive(t, b.Get(Coord{2, y}).Nearby)
		assert.False(t, b.Get(Coord{3, y}).Clicked)
		assert.False(t, b.Get(Coord{4, y}).Clicked)
	}
}

func TestExposeFloodFillCompleteness(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := range 200 {
		b := NewBoard(8, 8)
		start := Coord{r.IntN(8), r.IntN(8)}
		PlaceMines(b, start, 8, r)

		want := expectedRegion(b, start)
		changed := ExposeCell(b, start, make(Visited))

		got := map[Coord]bool{}
		for _, c := range changed {
			require.False(t, got[c], "trial %d: %s reported twice", trial, c)
			got[c] = true
		}
		require.Equal(t, want, got, "trial %d", trial)

		for x := range 8 {
			for y := range 8 {
				c := Coord{x, y}
				cell := b.Get(c)
				assert.Equal(t, want[c], cell.Clicked, "trial %d: %s", trial, c)
				if cell.Clicked {
					assert.False(t, cell.Mine)
					assert.Equal(t, b.CountNearby(c), cell.Nearby)
				}
			}
		}
	}
}

func TestExposeAlreadyClickedIsNoop(t *testing.T) {
	b := boardWithMines(4, 4, Coord{3, 3})
	first := ExposeCell(b, Coord{0, 0}, make(Visited))
	require.NotEmpty(t, first)
	before := b.Snapshot()

	assert.Nil(t, ExposeCell(b, Coord{0, 0}, make(Visited)))
	assert.Equal(t, before, b.Snapshot())
}

func TestExposeStopsAtFlagsAndClickedCells(t *testing.T) {
	b := NewBoard(3, 1)
	b.ToggleFlag(Coord{1, 0})
	changed := ExposeCell(b, Coord{0, 0}, make(Visited))
	assert.Equal(t, []Coord{{0, 0}}, changed)
	assert.False(t, b.Get(Coord{1, 0}).Clicked)
	assert.False(t, b.Get(Coord{2, 0}).Clicked)

	b = NewBoard(3, 1)
	b.SetClicked(Coord{2, 0})
	changed = ExposeCell(b, Coord{0, 0}, make(Visited))
	slices.SortFunc(changed, func(a, b Coord) int { return a.X - b.X })
	assert.Equal(t, []Coord{{0, 0}, {1, 0}}, changed)
}
