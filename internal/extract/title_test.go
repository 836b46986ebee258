package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"meetctx/internal/page"
)

const meetURL = "https://meet.google.com/abc-defg-hij"

func TestResolveTitleFallsBackToPageTitle(t *testing.T) {
	p := parse(t, meetURL, `<html><head><title>abc-defg-hij - Google Meet</title></head><body><div>call</div></body></html>`)

	title, err := New().ResolveTitle(p)
	require.NoError(t, err)
	require.Equal(t, "abc-defg-hij", title)
}

func TestResolveTitleStripsZoomPrefix(t *testing.T) {
	p := parse(t, "https://us02web.zoom.us/wc/1", `<html><head><title>Zoom - Design review</title></head></html>`)

	title, err := New().ResolveTitle(p)
	require.NoError(t, err)
	require.Equal(t, "Design review", title)
}

func TestResolveTitleRulePriority(t *testing.T) {
	html := `<html><head><title>x - Google Meet</title></head><body>
<h1>Generic heading</h1>
<div class="meeting-client-inner"><span class="meeting-title">Zoom topic</span></div>
<div data-meeting-title="  Quarterly planning  ">ignored text</div>
</body></html>`

	title, err := New().ResolveTitle(parse(t, meetURL, html))
	require.NoError(t, err)
	require.Equal(t, "Quarterly planning", title)
}

func TestResolveTitleAttributeOrder(t *testing.T) {
	html := `<html><body><c-wiz data-p="1"><span data-topic="Retro">visible</span></c-wiz></body></html>`

	title, err := New().ResolveTitle(parse(t, meetURL, html))
	require.NoError(t, err)
	require.Equal(t, "Retro", title)
}

func TestResolveTitleSkipsOversizedCandidate(t *testing.T) {
	long := strings.Repeat("word ", 50) // 250 chars
	html := `<html><body>
<div id="wc-container-left"><div class="meeting-name">` + long + `</div></div>
<h1>Short heading</h1>
</body></html>`

	title, err := New().ResolveTitle(parse(t, "https://x.zoom.us/wc/1", html))
	require.NoError(t, err)
	require.Equal(t, "Short heading", title)
}

func TestResolveTitleSkipsEmptyCandidate(t *testing.T) {
	// whitespace-only attribute shadows the text and is then rejected
	html := `<html><head><title>Zoom - Fallback</title></head><body>
<div data-meeting-title="   ">Text that is never read</div>
</body></html>`

	title, err := New().ResolveTitle(parse(t, "https://x.zoom.us/wc/1", html))
	require.NoError(t, err)
	require.Equal(t, "Fallback", title)
}

func TestResolveTitleConfigurableBound(t *testing.T) {
	html := `<html><head><title>Fallback</title></head><body><h1>Twelve chars</h1></body></html>`
	b := DefaultBounds()
	b.MaxTitleLength = 12

	title, err := New(WithBounds(b)).ResolveTitle(parse(t, meetURL, html))
	require.NoError(t, err)
	require.Equal(t, "Fallback", title)
}

func TestResolveTitleFallbackProperties(t *testing.T) {
	raws := []string{
		"abc - Google Meet",
		"Zoom - abc",
		"Zoom - abc - Google Meet",
		"plain",
		" - Google Meet",
	}
	for _, raw := range raws {
		got := StripTitle(raw)
		require.LessOrEqual(t, len(got), len(raw), raw)
		require.NotEmpty(t, got, raw)
	}
	require.Equal(t, "- Google Meet", StripTitle(" - Google Meet"))
	require.Empty(t, StripTitle(""))
	// only the suffix is a marker; nothing else is removed
	require.Equal(t, "Google Meet", StripTitle("Google Meet"))
	require.Equal(t, "Zoom", StripTitle("Zoom"))
}

func TestResolveTitleSelectorError(t *testing.T) {
	p := brokenPage{
		Page:   parse(t, meetURL, `<html><head><title>t</title></head></html>`),
		broken: map[string]bool{"h1": true},
	}

	_, err := New().ResolveTitle(p)
	require.ErrorIs(t, err, errLookup)

	bad := New(WithTitleRules([]SelectorRule{{Selector: "[oops", Extract: AttrsThenText()}}))
	_, err = bad.ResolveTitle(parse(t, meetURL, `<html></html>`))
	require.ErrorIs(t, err, page.ErrInvalidSelector)
}
