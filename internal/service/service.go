// Package service turns page references into meeting snapshots for the
// HTTP API and the batch CLI.
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"meetctx/internal/crawler"
	"meetctx/internal/extract"
	"meetctx/internal/metrics"
	"meetctx/internal/models"
	"meetctx/internal/page"
	"meetctx/internal/parser"
	"meetctx/internal/responder"
	"meetctx/pkg/logger"
)

type Service struct {
	Client    *crawler.HTTPClient
	Parser    *parser.Parser
	Extractor *extract.Extractor
	Log       *logger.Logger
	Metrics   *metrics.Metrics
	// Workers bounds batch concurrency.
	Workers int
}

// Source resolves ref to a page source: a saved snapshot when ref.File is
// set, otherwise the live URL.
func (s *Service) Source(ref models.PageRef) (page.Source, error) {
	if ref.File == "" {
		return crawler.NewSource(s.Client, s.Parser, ref.URL), nil
	}
	f, err := os.Open(ref.File)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	doc, err := s.Parser.Parse(f, "", ref.URL)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", ref.File, err)
	}
	return page.Static{Page: doc}, nil
}

// Responder builds a responder for src sharing the service's extractor.
func (s *Service) Responder(src page.Source) *responder.Responder {
	return responder.New(src, s.Extractor, s.Log, s.Metrics)
}

// Snapshot answers a single meeting context query against src.
func (s *Service) Snapshot(ctx context.Context, src page.Source) models.MeetingSnapshot {
	var snap models.MeetingSnapshot
	s.Responder(src).Handle(ctx, models.NewQuery(), func(v any) error {
		snap = v.(models.MeetingSnapshot)
		return nil
	})
	return snap
}

// Resolve snapshots one page reference.
func (s *Service) Resolve(ctx context.Context, ref models.PageRef) models.PageResult {
	start := time.Now()
	if ref.URL == "" {
		return models.PageResult{Error: "empty url"}
	}
	src, err := s.Source(ref)
	if err != nil {
		return models.PageResult{URL: ref.URL, Error: err.Error()}
	}
	snap := s.Snapshot(ctx, src)
	return models.PageResult{
		URL:      ref.URL,
		Snapshot: &snap,
		FetchMs:  time.Since(start).Milliseconds(),
	}
}

// Batch resolves refs with bounded concurrency. Results keep input order.
func (s *Service) Batch(ctx context.Context, refs []models.PageRef, perPage time.Duration) []models.PageResult {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]models.PageResult, len(refs))

	sem := make(chan struct{}, workers)
	done := make(chan int, len(refs))

	for i, ref := range refs {
		sem <- struct{}{} // acquire
		go func() {
			defer func() { <-sem; done <- i }()
			ctx, cancel := context.WithTimeout(ctx, perPage)
			defer cancel()
			results[i] = s.Resolve(ctx, ref)
		}()
	}
	// wait
	for range refs {
		<-done
	}
	return results
}
