package natsbus

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetctx/internal/models"
	"meetctx/internal/transport"
)

// startTestNATSServer starts an embedded NATS server for testing.
func startTestNATSServer(t *testing.T) *natsserver.Server {
	opts := &natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1, // Random port
		NoLog:  true,
		NoSigs: true,
	}

	server, err := natsserver.NewServer(opts)
	require.NoError(t, err)

	go server.Start()

	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		server.Shutdown()
		server.WaitForShutdown()
	})

	return server
}

func connect(t *testing.T) *nats.Conn {
	server := startTestNATSServer(t)
	nc, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func TestRequestReply(t *testing.T) {
	nc := connect(t)
	bus := New(nc)

	stop, err := bus.Listen(transport.HandlerFunc(func(ctx context.Context, msg models.Message, reply transport.Reply) bool {
		if msg.Type != models.TypeGetMeetingContext {
			return false
		}
		_ = reply(models.MeetingSnapshot{Platform: models.PlatformZoomWeb, Participants: []string{"Ann"}})
		return true
	}))
	require.NoError(t, err)
	defer stop()
	require.NoError(t, nc.Flush())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var snap models.MeetingSnapshot
	require.NoError(t, bus.Request(ctx, models.NewQuery(), &snap))
	assert.Equal(t, models.PlatformZoomWeb, snap.Platform)
	assert.Equal(t, []string{"Ann"}, snap.Participants)
}

func TestUnhandledRequestTimesOut(t *testing.T) {
	nc := connect(t)
	bus := New(nc)

	stop, err := bus.Listen(transport.HandlerFunc(func(ctx context.Context, msg models.Message, reply transport.Reply) bool {
		return msg.Type == models.TypeGetMeetingContext && reply(map[string]string{}) == nil
	}))
	require.NoError(t, err)
	defer stop()
	require.NoError(t, nc.Flush())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out map[string]string
	err = bus.Request(ctx, models.Message{Type: "PING"}, &out)
	require.Error(t, err)
}

func TestRequestWithoutResponders(t *testing.T) {
	bus := New(connect(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var out models.MeetingSnapshot
	err := bus.Request(ctx, models.NewQuery(), &out)
	require.ErrorIs(t, err, transport.ErrNoListener)
}

func TestSendAndSubscribe(t *testing.T) {
	nc := connect(t)
	bus := New(nc, WithSubjects("test.query", "test.events"))

	ch := make(chan models.Announcement, 1)
	stop, err := bus.Subscribe(func(a models.Announcement) { ch <- a })
	require.NoError(t, err)
	defer stop()
	require.NoError(t, nc.Flush())

	err = bus.Send(context.Background(), models.Announcement{
		Type:     models.TypeContentPlatformDetected,
		Platform: models.PlatformGoogleMeet,
		URL:      "https://meet.google.com/abc-defg-hij",
	})
	require.NoError(t, err)

	select {
	case a := <-ch:
		assert.Equal(t, models.TypeContentPlatformDetected, a.Type)
		assert.Equal(t, models.PlatformGoogleMeet, a.Platform)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for announcement")
	}
}
