package mines

import (
	"fmt"
	"math/rand/v2"
	"time"
)

type State int

const (
	NotStarted State = iota
	Started
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "notStarted"
	case Started:
		return "started"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// [State] implements [encoding.TextMarshaler]
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// [State] implements [encoding.TextUnmarshaler]
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseState(text string) (State, error) {
	for _, s := range []State{NotStarted, Started, Won, Lost} {
		if s.String() == text {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown game state %q", text)
}

func (s State) Terminal() bool {
	return s == Won || s == Lost
}

type Params struct {
	Width  int `json:"width"`
	Length int `json:"length"`
	Mines  int `json:"mines"`
}

var DefaultParams = Params{Width: 8, Length: 8, Mines: 8}

func (p Params) Validate() error {
	if p.Width <= 0 || p.Length <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Length)
	}
	if p.Mines < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeMines, p.Mines)
	}
	if p.Mines >= p.Width*p.Length {
		return fmt.Errorf("%w: %d >= %d", ErrTooManyMines, p.Mines, p.Width*p.Length)
	}
	return nil
}

type CellUpdate struct {
	Coord
	Cell Cell `json:"cell"`
}

type Update struct {
	State    State        `json:"state"`
	Changed  []CellUpdate `json:"changed"`
	Exploded *Coord       `json:"exploded,omitempty"`
}

type Snapshot struct {
	State  State    `json:"state"`
	Width  int      `json:"width"`
	Length int      `json:"length"`
	Mines  int      `json:"mines"`
	Cells  [][]Cell `json:"cells"`
}

// Game is the state machine of a single shared board. It does no locking;
// callers serialize Expose, Flag and Restart.
type Game struct {
	params    Params
	board     *Board
	state     State
	rnd       *rand.Rand
	now       func() time.Time
	moves     int
	startedAt time.Time
	endedAt   time.Time
}

type Option func(*Game)

func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

func NewGame(params Params, r *rand.Rand, opts ...Option) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		params: params,
		rnd:    r,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.Restart()
	return g, nil
}

func (g *Game) Params() Params { return g.params }
func (g *Game) State() State   { return g.state }
func (g *Game) Moves() int     { return g.moves }

// StartedAt and EndedAt are zero until the first exposure and the terminal
// transition respectively.
func (g *Game) StartedAt() time.Time { return g.startedAt }
func (g *Game) EndedAt() time.Time   { return g.endedAt }

func (g *Game) InBounds(c Coord) bool {
	return g.board.InBounds(c)
}

func (g *Game) Cell(c Coord) Cell {
	return g.board.Get(c)
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:  g.state,
		Width:  g.params.Width,
		Length: g.params.Length,
		Mines:  g.params.Mines,
		Cells:  g.board.Snapshot(),
	}
}

func (g *Game) update(coords []Coord) Update {
	upd := Update{State: g.state, Changed: make([]CellUpdate, 0, len(coords))}
	for _, c := range coords {
		upd.Changed = append(upd.Changed, CellUpdate{Coord: c, Cell: g.board.Get(c)})
	}
	return upd
}

func (g *Game) end(s State) {
	g.state = s
	g.endedAt = g.now()
}

// Expose opens c. The first exposure of a game places the mines so that c
// is never one of them. Exposing in a terminal state, or exposing a cell that
// is already clicked or flagged, changes nothing.
func (g *Game) Expose(c Coord) Update {
	if g.state.Terminal() {
		return g.update(nil)
	}
	if cell := g.board.Get(c); cell.Clicked || cell.Flag {
		return g.update(nil)
	}

	if g.state == NotStarted {
		PlaceMines(g.board, c, g.params.Mines, g.rnd)
		g.state = Started
		g.startedAt = g.now()
	}
	g.moves++

	if g.board.Get(c).Mine {
		g.board.SetClicked(c)
		g.end(Lost)
		upd := g.update(g.board.Mines())
		upd.Exploded = &c
		return upd
	}

	return g.update(ExposeCell(g.board, c, make(Visited)))
}

// Flag toggles the flag on an unclicked cell. While the game is running it
// is won as soon as the flagged cells are exactly the mined cells. Flags are
// frozen once the game is over.
func (g *Game) Flag(c Coord) Update {
	if g.state.Terminal() || g.board.Get(c).Clicked {
		return g.update(nil)
	}

	g.board.ToggleFlag(c)
	g.moves++

	if g.state == Started && g.flagsMatchMines() {
		g.end(Won)
	}

	return g.update([]Coord{c})
}

func (g *Game) flagsMatchMines() bool {
	for _, cell := range g.board.cells {
		if cell.Mine != cell.Flag {
			return false
		}
	}
	return true
}

// Restart discards the board, mines included, and waits for a new first
// exposure.
func (g *Game) Restart() Snapshot {
	g.board = NewBoard(g.params.Width, g.params.Length)
	g.state = NotStarted
	g.moves = 0
	g.startedAt = time.Time{}
	g.endedAt = time.Time{}
	return g.Snapshot()
}
