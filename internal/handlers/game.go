package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/htmx-minesweeper/internal/config"
	"github.com/vancomm/htmx-minesweeper/internal/live"
	"github.com/vancomm/htmx-minesweeper/internal/mines"
)

type GameHandler struct {
	log     logrus.FieldLogger
	table   *live.Table
	hub     *live.Hub
	ws      *config.WebSocket
	decoder *schema.Decoder
}

func NewGameHandler(
	log logrus.FieldLogger,
	table *live.Table,
	hub *live.Hub,
	ws *config.WebSocket,
) *GameHandler {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return &GameHandler{
		log:     log,
		table:   table,
		hub:     hub,
		ws:      ws,
		decoder: dec,
	}
}

var ErrBadPosition = errors.New("request must contain integer x and y")

func (g GameHandler) parsePosition(r *http.Request) (mines.Coord, error) {
	var pos mines.Coord
	if err := r.ParseForm(); err != nil {
		return pos, ErrBadPosition
	}
	if err := g.decoder.Decode(&pos, r.Form); err != nil {
		return pos, ErrBadPosition
	}
	return pos, nil
}

func (g GameHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	var buf bytes.Buffer
	if err := g.table.Page(&buf); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		g.log.WithError(err).Warn("unable to send page")
	}
}

func (g GameHandler) State(w http.ResponseWriter, r *http.Request) {
	snap := g.table.Snapshot()
	// mines stay secret until the game is over
	if !snap.State.Terminal() {
		for _, column := range snap.Cells {
			for y := range column {
				column[y].Mine = false
			}
		}
	}
	sendJSONOrLog(w, g.log, snap)
}

type move func(ctx context.Context, c mines.Coord) (mines.Update, error)

func (g GameHandler) handleMove(w http.ResponseWriter, r *http.Request, m move) {
	pos, err := g.parsePosition(r)
	if err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}
	if _, err := m(r.Context(), pos); err != nil {
		if errors.Is(err, live.ErrOutOfBounds) {
			params := g.table.Params()
			sendErrorOrLog(w, g.log, http.StatusBadRequest, fmt.Errorf(
				"%w: %s on %dx%d board", err, pos, params.Width, params.Length,
			))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to apply move")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g GameHandler) Expose(w http.ResponseWriter, r *http.Request) {
	g.handleMove(w, r, g.table.Expose)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.handleMove(w, r, g.table.Flag)
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if _, err := g.table.Restart(); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to restart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	g.hub.Serve(conn)
}
