package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	app "github.com/manish-mehra/locshare/internal/app"
	httpx "github.com/manish-mehra/locshare/internal/http"
	session "github.com/manish-mehra/locshare/internal/session"
	ws "github.com/manish-mehra/locshare/internal/ws"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "locshare-server",
		Usage: "realtime location sharing server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides HTTP_ADDR)"},
			&cli.StringFlag{Name: "env", Usage: "environment name (overrides APP_ENV)"},
		},
		Action: run,
	}

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := app.LoadConfig()
	if v := cmd.String("addr"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := cmd.String("env"); v != "" {
		cfg.Env = v
	}
	logger := app.NewLogger(cfg.Env)

	// Room table + websocket hub (the hub carries the coordinator)
	store := session.NewStore(cfg.RoomIDLen)
	hub := ws.NewHub(logger, store)

	// HTTP + WS router
	router := httpx.NewRouter(cfg, logger, hub, store)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or crash
	select {
	case err := <-errCh:
		logger.Error("server.crash", "err", err)
		return err
	case <-ctx.Done():
	}
	logger.Info("server.shutdown.start")

	// shutdown
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
	return nil
}
