package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/htmx-minesweeper/internal/config"
	"github.com/vancomm/htmx-minesweeper/internal/live"
	"github.com/vancomm/htmx-minesweeper/internal/middleware"
	"github.com/vancomm/htmx-minesweeper/internal/mines"
	"github.com/vancomm/htmx-minesweeper/internal/records"
	"github.com/vancomm/htmx-minesweeper/internal/render"
)

type App struct {
	log    *logrus.Logger
	cfg    config.Config
	router *http.ServeMux
	store  records.Store
	ws     *config.WebSocket
	hub    *live.Hub
	table  *live.Table
}

// New sets up the shared game and its routes. The store stays owned by the
// caller.
func New(log *logrus.Logger, cfg config.Config, store records.Store, rnd *rand.Rand) (*App, error) {
	game, err := mines.NewGame(cfg.Board, rnd)
	if err != nil {
		return nil, fmt.Errorf("unable to create game: %w", err)
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	ws := config.NewWebSocket(cfg.WebSocket)
	hub := live.NewHub(
		log.WithField("component", "hub"),
		ws.WriteTimeout.Duration,
		ws.PingInterval.Duration,
		ws.SendBuffer,
	)

	a := &App{
		log:    log,
		cfg:    cfg,
		router: http.NewServeMux(),
		store:  store,
		ws:     ws,
		hub:    hub,
		table: live.NewTable(
			log.WithField("component", "table"), game, renderer, hub, store,
		),
	}
	a.loadRoutes()
	return a, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.log),
		middleware.Cors(),
	)
}

func (a *App) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve blocks until ctx is done or the server fails, then shuts the server
// down and disconnects every viewer.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler: a.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", ln.Addr())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), a.cfg.ShutdownTimeout.Duration,
		)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		a.hub.Close()
		a.log.Info("server stopped")
		return err
	})

	return g.Wait()
}
