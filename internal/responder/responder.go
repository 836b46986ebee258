// Package responder answers GET_MEETING_CONTEXT queries with a snapshot of
// the page's meeting context.
package responder

import (
	"context"
	"fmt"

	"meetctx/internal/extract"
	"meetctx/internal/metrics"
	"meetctx/internal/models"
	"meetctx/internal/page"
	"meetctx/internal/transport"
	"meetctx/pkg/logger"
)

// Responder builds a fresh snapshot from its page source on every query.
type Responder struct {
	src     page.Source
	ex      *extract.Extractor
	log     *logger.Logger
	metrics *metrics.Metrics
}

func New(src page.Source, ex *extract.Extractor, log *logger.Logger, m *metrics.Metrics) *Responder {
	if ex == nil {
		ex = extract.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Responder{src: src, ex: ex, log: log, metrics: m}
}

// Handle implements transport.Handler. Messages of any other type are left
// for other handlers; a query always gets exactly one reply.
func (r *Responder) Handle(ctx context.Context, msg models.Message, reply transport.Reply) bool {
	if msg.Type != models.TypeGetMeetingContext {
		return false
	}
	res := r.Snapshot(ctx)
	r.metrics.Query(res.IsDegraded())
	if res.IsDegraded() {
		r.log.Warnf("degraded snapshot for %s: %s", res.Value.URL, res.Diagnostic)
	}
	if err := reply(res.Value); err != nil {
		r.log.Errorf("reply to %s %s: %v", msg.Type, msg.ID, err)
	}
	return true
}

// Snapshot reads the page and extracts its meeting context. It never fails:
// any error or panic along the way yields a degraded snapshot whose Error
// field carries the diagnostic.
func (r *Responder) Snapshot(ctx context.Context) (res extract.Result[models.MeetingSnapshot]) {
	url := r.src.URL()
	var p page.Page
	defer func() {
		if rec := recover(); rec != nil {
			res = fallback(url, p, fmt.Errorf("extraction panic: %v", rec))
		}
	}()

	p, err := r.src.Load(ctx)
	if err != nil {
		return fallback(url, nil, fmt.Errorf("load page: %w", err))
	}
	url = p.URL()

	platform := extract.Detect(url)
	title, err := r.ex.ResolveTitle(p)
	if err != nil {
		return fallback(url, p, err)
	}
	participants := r.ex.CollectParticipants(p)

	return extract.Ok(models.MeetingSnapshot{
		Platform:      platform,
		PlatformLabel: extract.Label(platform),
		Title:         title,
		Participants:  participants,
		URL:           url,
	})
}

func fallback(url string, p page.Page, err error) extract.Result[models.MeetingSnapshot] {
	platform := extract.Detect(url)
	title := ""
	if p != nil {
		title = p.Title()
	}
	snap := models.MeetingSnapshot{
		Platform:      platform,
		PlatformLabel: extract.Label(platform),
		Title:         title,
		Participants:  []string{},
		URL:           url,
		Error:         err.Error(),
	}
	return extract.Degraded(snap, snap.Error)
}
