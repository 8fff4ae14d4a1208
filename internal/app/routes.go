package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/htmx-minesweeper/internal/handlers"
)

// NewRand seeds a generator from seed, or from the runtime when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed != 0 {
		return rand.New(rand.NewPCG(seed, seed))
	}
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.log.WithField("handler", "game"), a.table, a.hub, a.ws,
	)
	recs := handlers.NewRecordsHandler(
		a.log.WithField("handler", "records"), a.store,
	)

	a.router.HandleFunc("GET /", game.Page)
	a.router.HandleFunc("GET /state", game.State)
	a.router.HandleFunc("POST /expose", game.Expose)
	a.router.HandleFunc("POST /flag", game.Flag)
	a.router.HandleFunc("POST /restart", game.Restart)
	a.router.HandleFunc("GET /ws", game.ConnectWS)

	a.router.HandleFunc("GET /records", recs.Recent)
}
