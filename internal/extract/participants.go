package extract

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"meetctx/internal/page"
)

// CollectParticipants unions every participant selector's matches, in rule
// then document order, with duplicates removed and the result capped at
// Bounds.MaxParticipants. A selector that fails to evaluate is skipped.
func (e *Extractor) CollectParticipants(p page.Page) []string {
	var found []string
	for _, r := range e.participantRules {
		els, err := p.All(r.Selector)
		if err != nil {
			e.skip(r.Selector, err)
			continue
		}
		for _, el := range els {
			name := strings.TrimSpace(r.Extract(el))
			if e.admit(name) {
				found = append(found, name)
			}
		}
	}

	out := lo.Uniq(found)
	if len(out) > e.bounds.MaxParticipants {
		out = out[:e.bounds.MaxParticipants]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func (e *Extractor) admit(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= e.bounds.MinParticipantLength && n < e.bounds.MaxParticipantLength
}

func (e *Extractor) skip(selector string, err error) {
	e.metrics.SelectorFailure("participants")
	if errors.Is(err, page.ErrInvalidSelector) {
		e.log.Debugf("participant selector skipped: %v", err)
		return
	}
	e.log.Debugf("participant selector %q skipped: %v", selector, err)
}
