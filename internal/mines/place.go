package mines

import "math/rand/v2"

// PlaceMines mines exactly count distinct cells of b, never avoid and never
// a cell that is already mined, by rejection sampling uniform coordinates.
//
// panics [AssertionError] if count does not fit next to avoid
func PlaceMines(b *Board, avoid Coord, count int, r *rand.Rand) {
	free := b.Area() - len(b.Mines())
	if b.InBounds(avoid) && !b.Get(avoid).Mine {
		free--
	}
	if count > free {
		panic(AssertionError{"not enough free cells for mines"})
	}

	for placed := 0; placed < count; {
		c := Coord{r.IntN(b.Width()), r.IntN(b.Length())}
		if c == avoid || b.Get(c).Mine {
			continue
		}
		b.SetMine(c)
		placed++
	}
}
