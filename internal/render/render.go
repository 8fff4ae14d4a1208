// Package render turns game snapshots and updates into htmx HTML. Updates
// are out-of-band swaps keyed by element id, so one fragment can be pushed
// to every viewer over the websocket.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/vancomm/htmx-minesweeper/internal/mines"
)

//go:embed templates/*.html
var templates embed.FS

type Message struct {
	Text  string
	Class string
	Swap  bool
}

func MessageFor(s mines.State) Message {
	switch s {
	case mines.NotStarted:
		return Message{Text: "Click to start..."}
	case mines.Started:
		return Message{Text: "Keep going!"}
	case mines.Lost:
		return Message{Text: "Uh oh!", Class: "lost"}
	case mines.Won:
		return Message{Text: "You win! :)", Class: "won"}
	default:
		return Message{Text: s.String()}
	}
}

type cellView struct {
	mines.Cell
	mines.Coord
	Swap     bool
	Reveal   bool
	Exploded bool
}

func (c cellView) ID() string {
	return CellID(c.Coord)
}

func (c cellView) Vals() string {
	return fmt.Sprintf(`{"x": %d, "y": %d}`, c.X, c.Y)
}

func CellID(c mines.Coord) string {
	return fmt.Sprintf("c-%d-%d", c.X, c.Y)
}

type boardView struct {
	Length int
	Swap   bool
	Cells  []cellView
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("unable to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// board lists cells column by column; the grid flows by column too. Mines
// are only shown once the game is lost.
func board(snap mines.Snapshot, swap bool) boardView {
	view := boardView{Length: snap.Length, Swap: swap}
	for x, column := range snap.Cells {
		for y, cell := range column {
			view.Cells = append(view.Cells, cellView{
				Cell:     cell,
				Coord:    mines.Coord{X: x, Y: y},
				Reveal:   snap.State == mines.Lost && cell.Mine,
				Exploded: snap.State == mines.Lost && cell.Mine && cell.Clicked,
			})
		}
	}
	return view
}

func (r *Renderer) Page(w io.Writer, snap mines.Snapshot) error {
	return r.tmpl.ExecuteTemplate(w, "page", struct {
		Message Message
		Board   boardView
	}{MessageFor(snap.State), board(snap, false)})
}

// Update renders the message and every changed cell as out-of-band swaps.
func (r *Renderer) Update(upd mines.Update) ([]byte, error) {
	msg := MessageFor(upd.State)
	msg.Swap = true

	cells := make([]cellView, 0, len(upd.Changed))
	for _, cu := range upd.Changed {
		cells = append(cells, cellView{
			Cell:     cu.Cell,
			Coord:    cu.Coord,
			Swap:     true,
			Reveal:   upd.State == mines.Lost && cu.Cell.Mine,
			Exploded: upd.Exploded != nil && *upd.Exploded == cu.Coord,
		})
	}

	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "update", struct {
		Message Message
		Cells   []cellView
	}{msg, cells})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Restart renders the message and a replacement board.
func (r *Renderer) Restart(snap mines.Snapshot) ([]byte, error) {
	msg := MessageFor(snap.State)
	msg.Swap = true

	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "restart", struct {
		Message Message
		Board   boardView
	}{msg, board(snap, true)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
