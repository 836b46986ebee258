// Package announcer tells the controller, once per page load, which meeting
// platform the page belongs to.
package announcer

import (
	"context"
	"sync"
	"time"

	"meetctx/internal/extract"
	"meetctx/internal/metrics"
	"meetctx/internal/models"
	"meetctx/internal/page"
	"meetctx/internal/transport"
	"meetctx/pkg/logger"
)

// DefaultDelay gives the controller time to start listening.
const DefaultDelay = 500 * time.Millisecond

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 5 * time.Second

// Announcer sends at most one CONTENT_PLATFORM_DETECTED notification.
// Delivery is best effort: failures are logged and never retried.
type Announcer struct {
	sender  transport.Sender
	delay   time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics

	once sync.Once
	done chan struct{}
}

func New(sender transport.Sender, delay time.Duration, log *logger.Logger, m *metrics.Metrics) *Announcer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Announcer{
		sender:  sender,
		delay:   delay,
		log:     log,
		metrics: m,
		done:    make(chan struct{}),
	}
}

// Start schedules the announcement for p and reports whether one was
// scheduled. Pages on unknown platforms are skipped, as is every call after
// the first.
func (a *Announcer) Start(p page.Page) bool {
	scheduled := false
	a.once.Do(func() {
		platform := extract.Detect(p.URL())
		if platform == models.PlatformUnknown {
			a.metrics.Announcement("skipped")
			close(a.done)
			return
		}
		scheduled = true
		time.AfterFunc(a.delay, func() {
			defer close(a.done)
			a.send(p, platform)
		})
	})
	return scheduled
}

// Done is closed once the announcement was attempted or skipped.
func (a *Announcer) Done() <-chan struct{} { return a.done }

func (a *Announcer) send(p page.Page, platform models.PlatformID) {
	msg := models.Announcement{
		Type:          models.TypeContentPlatformDetected,
		Platform:      platform,
		PlatformLabel: extract.Label(platform),
		URL:           p.URL(),
		Title:         p.Title(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := a.sender.Send(ctx, msg); err != nil {
		a.metrics.Announcement("dropped")
		a.log.Debugf("platform announcement dropped: %v", err)
		return
	}
	a.metrics.Announcement("sent")
	a.log.Infof("announced %s for %s", platform, msg.URL)
}
