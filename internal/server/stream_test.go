package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tunewave/internal/core"
)

func TestStatusStream(t *testing.T) {
	env := newTestEnv(t)
	env.mpv.Set("time-pos", 5.0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go env.srv.RunStream(ctx)

	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	for i := 0; i < 2; i++ {
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)

		var status core.Status
		require.NoError(t, json.Unmarshal(data, &status))
		assert.Equal(t, 5.0, status.Time)
		assert.Equal(t, "Not Playing", status.Meta.Title)
	}
}

func TestHubPollsOnlyWithSubscribers(t *testing.T) {
	var calls atomic.Int32
	status := func(ctx context.Context) core.Status {
		calls.Add(1)
		return core.Status{Time: 1}
	}
	hub := NewHub(status, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load(), "no subscribers, no polling")

	c := &wsClient{hub: hub, send: make(chan []byte, 64)}
	hub.register <- c
	time.Sleep(60 * time.Millisecond)
	assert.Greater(t, calls.Load(), int32(1))

	hub.unregister <- c
	time.Sleep(20 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "polling should stop once the last subscriber leaves")

	msg := <-c.send
	assert.True(t, bytes.Contains(msg, []byte(`"time":1`)))
}

func TestHubDropsSlowSubscribers(t *testing.T) {
	hub := NewHub(func(context.Context) core.Status { return core.Status{} }, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := &wsClient{hub: hub, send: make(chan []byte, 1)}
	hub.register <- slow

	// The channel closes once the hub gives up on the subscriber.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.send:
			if !ok {
				return
			}
			// Stop draining so the buffer fills.
			time.Sleep(100 * time.Millisecond)
		case <-deadline:
			t.Fatal("slow subscriber was never dropped")
		}
	}
}
