package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nstehr/dominion/dominion-core/campaign"
	"github.com/nstehr/dominion/dominion-core/config"
	"github.com/nstehr/dominion/dominion-core/data"
	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/httpapi"
	"github.com/nstehr/dominion/dominion-core/ipc"
	"github.com/nstehr/dominion/dominion-core/metrics"
	"github.com/nstehr/dominion/dominion-core/rules"
	"github.com/nstehr/dominion/dominion-core/session"
)

const banner = `
██████╗  ██████╗ ███╗   ███╗██╗███╗   ██╗██╗ ██████╗ ███╗   ██╗
██╔══██╗██╔═══██╗████╗ ████║██║████╗  ██║██║██╔═══██╗████╗  ██║
██║  ██║██║   ██║██╔████╔██║██║██╔██╗ ██║██║██║   ██║██╔██╗ ██║
██║  ██║██║   ██║██║╚██╔╝██║██║██║╚██╗██║██║██║   ██║██║╚██╗██║
██████╔╝╚██████╔╝██║ ╚═╝ ██║██║██║ ╚████║██║╚██████╔╝██║ ╚████║
╚═════╝  ╚═════╝ ╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═╝ ╚═════╝ ╚═╝  ╚═══╝

Campaign Dice Tables`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting dominion", "dataDir", cfg.DataDir, "seed", cfg.Seed)

	roller, err := newRoller(cfg)
	if err != nil {
		slog.Error("failed to seed dice", "error", err)
		os.Exit(1)
	}

	companion, err := campaign.Load(data.Files(cfg.DataDir), roller, rules.WithMaxAttempts(cfg.MaxAttempts))
	if err != nil {
		slog.Error("failed to load rule data", "error", err)
		os.Exit(1)
	}
	m := metrics.New()

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		slog.Error("failed to clean up socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}
	defer os.Remove(cfg.SocketPath)

	slog.Info("listening on domain socket", "path", cfg.SocketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(companion, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return acceptLoop(ctx, listener, companion, m)
	})
	g.Go(func() error {
		slog.Info("listening on http", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		reloadLoop(ctx, companion, cfg.DataDir)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		listener.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newRoller(cfg *config.Config) (*dice.Roller, error) {
	var roller *dice.Roller
	if cfg.Seed != 0 {
		roller = dice.NewSeeded(cfg.Seed)
	} else {
		var err error
		if roller, err = dice.NewRandom(); err != nil {
			return nil, err
		}
	}
	if cfg.TestJokers {
		slog.Warn("joker test mode: every card drawn is a joker")
		roller.ForceJokers(true)
	}
	return roller, nil
}

// reloadLoop re-reads the rule data on SIGHUP. A failed reload is logged and
// the daemon keeps serving the data it had.
func reloadLoop(ctx context.Context, c *campaign.Companion, dir string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			slog.Info("reloading rule data", "dataDir", dir)
			if err := c.Reload(data.Files(dir)); err != nil {
				slog.Error("failed to reload rule data", "error", err)
			}
		}
	}
}

func acceptLoop(ctx context.Context, listener net.Listener, c *campaign.Companion, m *metrics.Metrics) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				if errors.Is(err, net.ErrClosed) {
					return err
				}
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go handleConn(conn, c, m)
	}
}

func handleConn(conn net.Conn, c *campaign.Companion, m *metrics.Metrics) {
	ipcConn := ipc.NewConnection(conn, nil)
	session.New(ipcConn, c, m).Register()
	ipcConn.ReadLoop()
}
