package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/server"
	"github.com/renato0307/farol/internal/state"
)

// ServeCmd runs the engine and socket server headless, with an optional SSH
// dashboard for remote access
type ServeCmd struct {
	SSHListen string `name:"ssh-listen" help:"Listen address for the SSH dashboard (e.g. :23234)"`
}

// Run executes the headless engine
func (s *ServeCmd) Run(cli *CLI) error {
	logging.Logger.Info("Starting farol in headless mode")

	socketPath := cli.socketPath()
	lock, err := state.Acquire(socketPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	container, err := NewContainer(cli.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	socketServer, err := startServices(ctx, g, container, socketPath)
	if err != nil {
		return err
	}

	if s.SSHListen != "" {
		settings := cli.settings
		if settings == nil {
			settings = &config.Settings{}
		}
		sshServer, err := server.NewServer(s.SSHListen, container.Engine,
			container.StatsService, socketServer, settings)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return sshServer.Start(ctx)
		})
	}

	logging.Logger.Info("Engine running", "socket", socketPath)
	return g.Wait()
}
