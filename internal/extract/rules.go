package extract

import "meetctx/internal/page"

// Strategy produces the raw candidate text for a matched element.
type Strategy func(page.Element) string

// SelectorRule pairs a selector with the way text is pulled from its matches.
type SelectorRule struct {
	Selector string
	Extract  Strategy
}

// AttrsThenText tries each attribute in order and falls back to the
// element's text content. The first non-empty raw value wins; trimming
// happens afterwards, so a whitespace-only attribute still shadows the text.
func AttrsThenText(attrs ...string) Strategy {
	return func(el page.Element) string {
		for _, a := range attrs {
			if v, ok := el.Attr(a); ok && v != "" {
				return v
			}
		}
		return el.Text()
	}
}

var titleStrategy = AttrsThenText("data-meeting-title", "data-topic")

var participantStrategy = AttrsThenText("data-self-name", "data-participant-name", "aria-label")

// TitleRules is the title lookup chain, most platform-specific first.
func TitleRules() []SelectorRule {
	return rules(titleStrategy,
		// Google Meet
		"[data-meeting-title]",
		"c-wiz[data-p] span[data-topic]",
		// Zoom Web
		"[id='meeting-info-header'] .meeting-title",
		"[id='wc-container-left'] .meeting-name",
		".meeting-client-inner .meeting-title",
		// generic
		"h1",
	)
}

var googleMeetParticipantSelectors = []string{
	"[data-self-name]",
	"[data-participant-id] [data-self-name]",
	"[aria-label*='(you)' i]",
	"[aria-label*='(You)']",
	"[role='listitem'] [aria-label]",
	// participant panel entries
	"div[data-requested-participant-id]",
	"div[jscontroller] [data-participant-name]",
}

var zoomParticipantSelectors = []string{
	"[class*='participants-item__display-name']",
	"[class*='participantsTab'] [aria-label]",
	".participants-section-container__participants-name",
	"[id*='participant-name']",
}

// ParticipantRules is every participant selector, Google Meet group first.
// All of them run on every page.
func ParticipantRules() []SelectorRule {
	selectors := append(append([]string{}, googleMeetParticipantSelectors...), zoomParticipantSelectors...)
	return rules(participantStrategy, selectors...)
}

func rules(s Strategy, selectors ...string) []SelectorRule {
	out := make([]SelectorRule, 0, len(selectors))
	for _, sel := range selectors {
		out = append(out, SelectorRule{Selector: sel, Extract: s})
	}
	return out
}

// Bounds are the heuristic size limits applied to extracted strings.
// Lengths count characters (runes).
type Bounds struct {
	// MaxTitleLength is exclusive.
	MaxTitleLength int
	// MinParticipantLength is inclusive.
	MinParticipantLength int
	// MaxParticipantLength is exclusive.
	MaxParticipantLength int
	MaxParticipants      int
}

func DefaultBounds() Bounds {
	return Bounds{
		MaxTitleLength:       200,
		MinParticipantLength: 2,
		MaxParticipantLength: 120,
		MaxParticipants:      100,
	}
}
