package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"meetctx/internal/announcer"
	"meetctx/internal/app"
	"meetctx/internal/models"
	"meetctx/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "meetctx-server",
		Short: "Serve meeting context over HTTP and, when configured, NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load(configPath)
			if err != nil {
				return err
			}
			defer a.Log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if a.Config.NATS.URL != "" && a.Config.Watch.URL != "" {
				stopWatch, err := watch(ctx, a)
				if err != nil {
					return err
				}
				defer stopWatch()
			}

			srv := server.New(a.Service, a.Log.Named("http"), a.Config.Fetch.Timeout)
			err = srv.Start(ctx, a.Config.Server.Addr, a.Config.Server.ShutdownTimeout)
			a.Log.Infof("bye")
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	return cmd
}

// watch answers NATS queries about the watched page and announces its
// platform once, as a content script does on page load.
func watch(ctx context.Context, a *app.App) (func(), error) {
	nc, bus, err := a.ConnectNATS()
	if err != nil {
		return nil, err
	}
	src, err := a.Service.Source(models.PageRef{URL: a.Config.Watch.URL})
	if err != nil {
		nc.Close()
		return nil, err
	}
	stopListen, err := bus.Listen(a.Service.Responder(src))
	if err != nil {
		nc.Close()
		return nil, err
	}
	a.Log.Infof("answering %s queries for %s", a.Config.NATS.QuerySubject, src.URL())

	if a.Config.Announce.Enabled {
		if p, err := src.Load(ctx); err != nil {
			a.Log.Warnf("initial load of %s failed, skipping announcement: %v", src.URL(), err)
		} else {
			announcer.New(bus, a.Config.Announce.Delay, a.Log.Named("announce"), a.Metrics).Start(p)
		}
	}

	return func() {
		stopListen()
		_ = nc.Drain()
	}, nil
}
