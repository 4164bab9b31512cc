package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kode-Bolds/Froggies-sub002/agent"
	"github.com/Kode-Bolds/Froggies-sub002/config"
	"github.com/Kode-Bolds/Froggies-sub002/ipc"
	"github.com/Kode-Bolds/Froggies-sub002/journal"
	"github.com/Kode-Bolds/Froggies-sub002/observer"
	"github.com/Kode-Bolds/Froggies-sub002/rules"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
)

const banner = `
  @..@     froggies
 (----)    harvest / deposit / repeat
( >__< )
^^ ~~ ^^`

func main() {
	configPath := flag.String("config", "", "YAML tuning file (empty uses built-in defaults)")
	socketPath := flag.String("socket", "/tmp/froggies.sock", "unix socket for controller clients")
	observeAddr := flag.String("observe", "", "websocket observer address, e.g. 127.0.0.1:8090 (empty disables)")
	journalDir := flag.String("journal", "", "directory for the tick journal (empty disables)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	if err := run(*configPath, *socketPath, *observeAddr, *journalDir); err != nil {
		slog.Error("froggies stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath, socketPath, observeAddr, journalDir string) error {
	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		return fmt.Errorf("default config: %w", err)
	}

	world, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	slog.Info("starting froggies", "units", len(world.UnitIDs()), "kinds", world.Kinds(), "tick_rate_hz", cfg.TickRateHz)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := sim.NewRunner(world, cfg.TickRateHz)

	if len(cfg.AutomatedOwners) > 0 {
		engines := make(map[int]*rules.Engine, len(cfg.AutomatedOwners))
		for _, owner := range cfg.AutomatedOwners {
			e, err := cfg.Engine()
			if err != nil {
				return fmt.Errorf("rules for owner %d: %w", owner, err)
			}
			engines[owner] = e
		}
		runner.AddHook(rules.NewAutomation(world, engines))
		slog.Info("automation enabled", "owners", cfg.AutomatedOwners, "policy", cfg.Policy.Name)
	}

	hub := agent.NewHub()
	runner.AddHook(hub)

	if observeAddr != "" {
		obs := observer.NewServer(world)
		runner.AddHook(obs)
		go func() {
			if err := obs.ListenAndServe(ctx, observeAddr); err != nil {
				slog.Error("observer stopped", "error", err)
			}
		}()
	}

	if journalDir != "" {
		j := journal.NewTickLogger(journalDir)
		runner.AddHook(j)
		defer func() {
			if err := j.Close(); err != nil {
				slog.Error("journal close failed", "error", err)
			}
		}()
		slog.Info("journal enabled", "dir", journalDir)
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer os.Remove(socketPath)
	slog.Info("listening on domain socket", "path", socketPath)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	go accept(ctx, listener, world, hub)

	err = runner.Run(ctx)
	slog.Info("shutting down", "tick", world.Tick())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func accept(ctx context.Context, listener net.Listener, world *sim.World, hub *agent.Hub) {
	var delay acceptBackoff
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			wait := delay.next()
			slog.Error("failed to accept connection", "error", err, "retry_in", wait)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}
		delay.reset()
		slog.Info("new connection accepted")
		go agent.New(ipc.NewConnection(conn, nil), world, hub).Serve()
	}
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// acceptBackoff doubles the pause between failed accepts up to a cap.
type acceptBackoff struct {
	d time.Duration
}

func (b *acceptBackoff) next() time.Duration {
	if b.d == 0 {
		b.d = minAcceptDelay
	} else {
		b.d = min(2*b.d, maxAcceptDelay)
	}
	return b.d
}

func (b *acceptBackoff) reset() { b.d = 0 }
