package mines

import "github.com/gammazero/deque"

type Visited map[Coord]struct{}

func (v Visited) Has(c Coord) bool {
	_, ok := v[c]
	return ok
}

func (v Visited) Add(c Coord) {
	v[c] = struct{}{}
}

// ExposeCell clicks c and floods outward through every cell that has no
// mined neighbours. Each coordinate is queued at most once per visited set.
// Cells already clicked or flagged stop the cascade and are left alone, so a
// flag inside a zero region also hides whatever is reachable only through it.
// The returned coordinates are the cells whose state changed, c first.
func ExposeCell(b *Board, c Coord, visited Visited) (changed []Coord) {
	if b.Get(c).Clicked {
		return nil
	}

	var todo deque.Deque[Coord]
	todo.PushBack(c)
	visited.Add(c)

	for todo.Len() > 0 {
		cur := todo.PopFront()

		b.SetClicked(cur)
		nearby := b.CountNearby(cur)
		b.SetNearby(cur, nearby)
		changed = append(changed, cur)

		if nearby > 0 {
			continue
		}
		for _, n := range b.Neighbors(cur) {
			if visited.Has(n) {
				continue
			}
			visited.Add(n)
			if cell := b.Get(n); cell.Clicked || cell.Flag {
				continue
			}
			todo.PushBack(n)
		}
	}

	return changed
}
