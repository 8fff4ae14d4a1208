package mines

import "fmt"

type Cell struct {
	Mine    bool `json:"mine"`
	Flag    bool `json:"flag"`
	Clicked bool `json:"clicked"`
	Nearby  int  `json:"nearby"`
}

type Coord struct {
	X int `json:"x" schema:"x,required"`
	Y int `json:"y" schema:"y,required"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d:%d", c.X, c.Y)
}

// Board is a fixed width x length grid of cells. Callers validate
// coordinates with [Board.InBounds]; any other out-of-range access panics.
type Board struct {
	width, length int
	cells         []Cell
}

func NewBoard(width, length int) *Board {
	return &Board{
		width:  width,
		length: length,
		cells:  make([]Cell, width*length),
	}
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Length() int { return b.length }
func (b *Board) Area() int   { return b.width * b.length }

func (b *Board) InBounds(c Coord) bool {
	return 0 <= c.X && c.X < b.width && 0 <= c.Y && c.Y < b.length
}

func (b *Board) index(c Coord) int {
	if !b.InBounds(c) {
		panic(fmt.Sprintf("mines: coordinate %s outside %dx%d board", c, b.width, b.length))
	}
	return c.X*b.length + c.Y
}

func (b *Board) Get(c Coord) Cell {
	return b.cells[b.index(c)]
}

func (b *Board) SetMine(c Coord) {
	b.cells[b.index(c)].Mine = true
}

func (b *Board) ToggleFlag(c Coord) bool {
	cell := &b.cells[b.index(c)]
	cell.Flag = !cell.Flag
	return cell.Flag
}

func (b *Board) SetClicked(c Coord) {
	b.cells[b.index(c)].Clicked = true
}

func (b *Board) SetNearby(c Coord, n int) {
	b.cells[b.index(c)].Nearby = n
}

// Neighbors returns the in-bounds cells of the 3x3 block around c,
// excluding c itself.
func (b *Board) Neighbors(c Coord) []Coord {
	neighbors := make([]Coord, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Coord{c.X + dx, c.Y + dy}
			if b.InBounds(n) {
				neighbors = append(neighbors, n)
			}
		}
	}
	return neighbors
}

func (b *Board) CountNearby(c Coord) (count int) {
	for _, n := range b.Neighbors(c) {
		if b.Get(n).Mine {
			count++
		}
	}
	return
}

// Mines returns the coordinates of every mined cell, column by column.
func (b *Board) Mines() []Coord {
	var coords []Coord
	for i, cell := range b.cells {
		if cell.Mine {
			coords = append(coords, Coord{i / b.length, i % b.length})
		}
	}
	return coords
}

// Snapshot copies the board into columns, indexed [x][y].
func (b *Board) Snapshot() [][]Cell {
	columns := make([][]Cell, b.width)
	for x := range b.width {
		columns[x] = make([]Cell, b.length)
		copy(columns[x], b.cells[x*b.length:(x+1)*b.length])
	}
	return columns
}
