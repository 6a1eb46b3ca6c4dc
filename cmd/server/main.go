package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-users-api/auth"
	"github.com/goliatone/go-users-api/config"
	"github.com/goliatone/go-users-api/items"
	"github.com/goliatone/go-users-api/server"
	"github.com/goliatone/go-users-api/store"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("app"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	logger := lgr.GetLogger("main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database open error", "dsn", cfg.DatabaseURL, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.Init(ctx, db); err != nil {
		logger.Error("database init error", "error", err)
		os.Exit(1)
	}

	users := auth.NewUsersRepository(db)
	auther := auth.NewAuthenticator(users, cfg).
		WithLogger(lgr.GetLogger("auth"))

	app := server.New(server.Options{
		Auther:      auther,
		Items:       items.NewItemsRepository(db),
		CORSOrigins: cfg.CORSOrigins,
		ContextKey:  cfg.GetContextKey(),
		AuthScheme:  cfg.GetAuthScheme(),
		Logger:      lgr.GetLogger("http"),
	})

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("server started", "addr", cfg.ServerAddr)

	sig := waitExitSignal()
	logger.Info("shutting down", "signal", sig.String())

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
