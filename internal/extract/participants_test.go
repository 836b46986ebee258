package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"meetctx/internal/metrics"
)

func TestCollectParticipantsDeduplicates(t *testing.T) {
	html := `<html><body>
<div data-self-name="Alice"></div>
<div data-participant-id="p1"><span data-self-name="Alice"></span></div>
<div role="listitem"><span aria-label="Bob (you)"></span></div>
</body></html>`

	got := New().CollectParticipants(parse(t, meetURL, html))
	require.Equal(t, []string{"Alice", "Bob (you)"}, got)
}

func TestCollectParticipantsAttributePriority(t *testing.T) {
	html := `<html><body>
<div jscontroller="x"><span data-participant-name="Carol" aria-label="Carol's tile">Carol text</span></div>
<div data-requested-participant-id="r1">  Dave  </div>
<span id="zoom-participant-name-3">Erin</span>
<ul class="participants-section-container__participants-name">Frank</ul>
</body></html>`

	got := New().CollectParticipants(parse(t, "https://x.zoom.us/wc/1", html))
	require.Equal(t, []string{"Dave", "Carol", "Frank", "Erin"}, got)
}

func TestCollectParticipantsLengthBounds(t *testing.T) {
	html := fmt.Sprintf(`<html><body>
<div data-self-name="A"></div>
<div data-self-name="   "></div>
<div data-self-name="%s"></div>
<div data-self-name="%s"></div>
<div data-self-name="Jo"></div>
</body></html>`, strings.Repeat("x", 120), strings.Repeat("y", 119))

	got := New().CollectParticipants(parse(t, meetURL, html))
	require.Equal(t, []string{strings.Repeat("y", 119), "Jo"}, got)
	for _, name := range got {
		require.GreaterOrEqual(t, len(name), 2)
		require.Less(t, len(name), 120)
	}
}

func TestCollectParticipantsCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, `<div data-self-name="Guest %03d"></div>`, i)
	}
	b.WriteString("</body></html>")
	p := parse(t, meetURL, b.String())

	got := New().CollectParticipants(p)
	require.Len(t, got, 100)
	require.Equal(t, "Guest 000", got[0])
	require.Equal(t, "Guest 099", got[99])

	bounds := DefaultBounds()
	bounds.MaxParticipants = 5
	require.Len(t, New(WithBounds(bounds)).CollectParticipants(p), 5)
}

func TestCollectParticipantsIdempotent(t *testing.T) {
	html := `<html><body>
<div role="listitem"><span aria-label="Zed"></span></div>
<div data-self-name="Amy"></div>
<div class="participants-item__display-name--abc">Kim</div>
</body></html>`
	p := parse(t, meetURL, html)
	ex := New()

	first := ex.CollectParticipants(p)
	second := ex.CollectParticipants(p)
	require.Equal(t, first, second)
	require.Equal(t, []string{"Amy", "Zed", "Kim"}, first)
}

func TestCollectParticipantsEmptyPage(t *testing.T) {
	got := New().CollectParticipants(parse(t, meetURL, `<html><body></body></html>`))
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCollectParticipantsSkipsFailingSelectors(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rules := append([]SelectorRule{{Selector: "[data-self-name", Extract: participantStrategy}}, ParticipantRules()...)
	ex := New(WithParticipantRules(rules), WithMetrics(m))

	p := brokenPage{
		Page:   parse(t, meetURL, `<html><body><div data-self-name="Alice"></div><div role="listitem"><b aria-label="Bob"></b></div></body></html>`),
		broken: map[string]bool{"[role='listitem'] [aria-label]": true},
	}

	got := ex.CollectParticipants(p)
	require.Equal(t, []string{"Alice"}, got)
	require.Equal(t, 2.0, testutil.ToFloat64(m.SelectorFailuresTotal.WithLabelValues("participants")))
}
