// Package extract holds the heuristic meeting extraction engine: platform
// detection, title resolution and the participant scan.
package extract

import (
	"meetctx/internal/metrics"
	"meetctx/pkg/logger"
)

// Extractor runs the title and participant rule sets against a page.
// It holds no per-page state and is safe for concurrent use.
type Extractor struct {
	titleRules       []SelectorRule
	participantRules []SelectorRule
	bounds           Bounds
	log              *logger.Logger
	metrics          *metrics.Metrics
}

type Option func(*Extractor)

func WithBounds(b Bounds) Option { return func(e *Extractor) { e.bounds = b } }

func WithTitleRules(r []SelectorRule) Option { return func(e *Extractor) { e.titleRules = r } }

func WithParticipantRules(r []SelectorRule) Option {
	return func(e *Extractor) { e.participantRules = r }
}

func WithLogger(l *logger.Logger) Option { return func(e *Extractor) { e.log = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(e *Extractor) { e.metrics = m } }

func New(opts ...Option) *Extractor {
	e := &Extractor{
		titleRules:       TitleRules(),
		participantRules: ParticipantRules(),
		bounds:           DefaultBounds(),
		log:              logger.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Extractor) Bounds() Bounds { return e.bounds }
