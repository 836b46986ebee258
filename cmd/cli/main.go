package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"meetctx/internal/announcer"
	"meetctx/internal/app"
	"meetctx/internal/ioformats"
	"meetctx/internal/models"
	"meetctx/internal/transport"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "meetctx",
		Short:         "Extract meeting context from video-conferencing pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")

	root.AddCommand(newSnapshotCmd(&configPath))
	root.AddCommand(newBatchCmd(&configPath))
	root.AddCommand(newQueryCmd(&configPath))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "meetctx %s (%s)\n", Version, CommitSHA)
		},
	})
	return root
}

func newSnapshotCmd(configPath *string) *cobra.Command {
	var (
		pageURL  string
		announce bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot [saved.html]",
		Short: "Print the meeting context of one page, fetched live or read from a saved file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageURL == "" {
				return errors.New("missing --url")
			}
			a, err := app.Load(*configPath)
			if err != nil {
				return err
			}
			defer a.Log.Sync()

			ref := models.PageRef{URL: pageURL}
			if len(args) == 1 {
				ref.File = args[0]
			}
			src, err := a.Service.Source(ref)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.Fetch.Timeout)
			defer cancel()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			bus := transport.NewBus()
			if _, err := bus.Listen(a.Service.Responder(src)); err != nil {
				return err
			}

			var ann *announcer.Announcer
			if announce {
				bus.Subscribe(func(v any) { _ = enc.Encode(v) })
				p, err := src.Load(ctx)
				if err != nil {
					return err
				}
				ann = announcer.New(bus, a.Config.Announce.Delay, a.Log.Named("announce"), a.Metrics)
				ann.Start(p)
			}

			snap, err := bus.Request(ctx, models.NewQuery())
			if err != nil {
				return err
			}
			if ann != nil {
				<-ann.Done()
			}
			return enc.Encode(snap)
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "page URL (fetched unless a saved file is given)")
	cmd.Flags().BoolVar(&announce, "announce", false, "also print the load-time platform announcement")
	return cmd
}

func newBatchCmd(configPath *string) *cobra.Command {
	var (
		in          string
		out         string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Snapshot every page listed in a CSV or NDJSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return errors.New("missing --input")
			}
			refs, err := ioformats.ReadPages(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			a, err := app.Load(*configPath)
			if err != nil {
				return err
			}
			defer a.Log.Sync()
			if concurrency > 0 {
				a.Service.Workers = concurrency
			}

			results := a.Service.Batch(cmd.Context(), refs, a.Config.Fetch.Timeout)

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			return ioformats.WriteNDJSON(w, results)
		},
	}
	cmd.Flags().StringVar(&in, "input", "", "input file (csv with 'url' and optional 'file' columns, or ndjson)")
	cmd.Flags().StringVar(&out, "output", "", "output NDJSON file (default stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "worker concurrency (default from config)")
	return cmd
}

func newQueryCmd(configPath *string) *cobra.Command {
	var follow time.Duration
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Ask a running responder for meeting context over NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load(*configPath)
			if err != nil {
				return err
			}
			defer a.Log.Sync()
			if a.Config.NATS.URL == "" {
				return errors.New("nats.url is not configured")
			}
			nc, bus, err := a.ConnectNATS()
			if err != nil {
				return err
			}
			defer nc.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			if follow > 0 {
				stop, err := bus.Subscribe(func(ann models.Announcement) { _ = enc.Encode(ann) })
				if err != nil {
					return err
				}
				defer stop()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.NATS.RequestTimeout)
			defer cancel()
			var snap models.MeetingSnapshot
			if err := bus.Request(ctx, models.NewQuery(), &snap); err != nil {
				return err
			}
			if err := enc.Encode(snap); err != nil {
				return err
			}
			if follow > 0 {
				time.Sleep(follow)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&follow, "follow", 0, "keep printing platform announcements for this long")
	return cmd
}
