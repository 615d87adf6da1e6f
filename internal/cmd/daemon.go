package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/farol/internal/transport"
)

// startServices brings up the engine, the socket server and the background
// transition consumers inside the errgroup. When ctx is cancelled the server
// stops accepting, the engine closes its subscriber channels and the consumer
// loops drain out on their own.
func startServices(ctx context.Context, g *errgroup.Group, container *Container, socketPath string) (*transport.Server, error) {
	server := transport.NewServer(socketPath, container.Engine)
	if err := server.Listen(); err != nil {
		return nil, err
	}

	container.Engine.Start()

	g.Go(func() error {
		return server.Serve()
	})

	watchTransitions, _ := container.Engine.Subscribe()
	g.Go(func() error {
		container.Watcher.Run(watchTransitions)
		return nil
	})

	notifyTransitions, _ := container.Engine.Subscribe()
	g.Go(func() error {
		container.NotificationService.Run(notifyTransitions)
		return nil
	})

	historyTransitions, _ := container.Engine.Subscribe()
	g.Go(func() error {
		container.HistoryService.Run(ctx, historyTransitions)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		_ = server.Close()
		container.Engine.Stop()
		container.Watcher.StopAll()
		return nil
	})

	return server, nil
}
