// Package main starts the canvas HTTP server. Each client opens a session
// holding its own application store, canvas controller and inspector, and
// drives it through the JSON API and the websocket state stream.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/terrascope/canvas/cmd/api/middleware"
	"github.com/terrascope/canvas/internal/canvas"
	"github.com/terrascope/canvas/internal/config"
	"github.com/terrascope/canvas/internal/handlers"
	"github.com/terrascope/canvas/internal/logger"
	"github.com/terrascope/canvas/internal/provider"
	"github.com/terrascope/canvas/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.DevMode)

	manager, router, err := setup(cfg)
	if err != nil {
		return err
	}
	defer manager.CloseAll()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.ListenAddr, strconv.Itoa(cfg.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log(logger.LevelInfo, map[string]string{"addr": srv.Addr}, nil, "🚀 Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serving http")
		}
		return nil
	})

	g.Go(func() error {
		return manager.Run(ctx, cfg.SweepInterval)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Log(logger.LevelInfo, nil, nil, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setup composes the provider, the session registry and the router.
func setup(cfg *config.Config) (*session.Manager, http.Handler, error) {
	p, err := provider.NewMock(provider.Options{
		AppsDelay:   cfg.AppsDelay,
		GraphDelay:  cfg.GraphDelay,
		FailureRate: cfg.FailureRate,
		CatalogPath: cfg.CatalogPath,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating data provider")
	}

	manager := session.NewManager(p, cfg.SessionTTL, canvas.WithFetchTimeout(cfg.FetchTimeout))
	router := handlers.NewRouter(
		handlers.New(manager),
		cfg.BaseURL,
		middleware.Cors(cfg.CORSOrigin),
		middleware.RequestLogger,
	)
	return manager, router, nil
}
