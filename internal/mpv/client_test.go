package mpv

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tunewave/internal/mpv/mpvtest"
)

func TestSendGetProperty(t *testing.T) {
	srv := mpvtest.New(t)
	srv.Set(PropTimePos, 42.5)
	srv.Set(PropPause, true)

	c := NewClient(srv.Path, time.Second)

	f, err := c.Send(context.Background(), GetProperty(PropTimePos)).Float()
	require.NoError(t, err)
	assert.Equal(t, 42.5, f)

	b, err := c.Send(context.Background(), GetProperty(PropPause)).Bool()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestSendSkipsEventsAndForeignReplies(t *testing.T) {
	srv := mpvtest.New(t)
	srv.Set(PropDuration, 200.0)
	srv.EmitEvents(true)

	c := NewClient(srv.Path, time.Second)
	f, err := c.Send(context.Background(), GetProperty(PropDuration)).Float()
	require.NoError(t, err)
	assert.Equal(t, 200.0, f)
}

func TestSendCommands(t *testing.T) {
	srv := mpvtest.New(t)
	c := NewClient(srv.Path, time.Second)
	ctx := context.Background()

	assert.True(t, c.Send(ctx, LoadFile("https://www.youtube.com/watch?v=abc")).OK())
	assert.True(t, c.Send(ctx, Cycle(PropPause)).OK())
	assert.True(t, c.Send(ctx, SetProperty(PropTimePos, 12.0)).OK())

	cmds := srv.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, []any{"loadfile", "https://www.youtube.com/watch?v=abc", "replace"}, cmds[0])
	assert.Equal(t, []any{"cycle", "pause"}, cmds[1])
	assert.Equal(t, []any{"set_property", "time-pos", 12.0}, cmds[2])
	assert.Equal(t, true, srv.Get(PropPause))
}

func TestSendFailures(t *testing.T) {
	t.Run("socket missing", func(t *testing.T) {
		dir, err := os.MkdirTemp("", "tw")
		require.NoError(t, err)
		defer os.RemoveAll(dir)

		c := NewClient(filepath.Join(dir, "absent.sock"), time.Second)
		reply := c.Send(context.Background(), GetProperty(PropPause))
		assert.False(t, reply.OK())
		assert.ErrorIs(t, reply.Err(), ErrSocketMissing)
	})

	t.Run("refused", func(t *testing.T) {
		dir, err := os.MkdirTemp("", "tw")
		require.NoError(t, err)
		defer os.RemoveAll(dir)

		// A socket file with no listener behind it.
		path := filepath.Join(dir, "dead.sock")
		ln, err := net.Listen("unix", path)
		require.NoError(t, err)
		ln.(*net.UnixListener).SetUnlinkOnClose(false)
		ln.Close()

		c := NewClient(path, time.Second)
		reply := c.Send(context.Background(), GetProperty(PropPause))
		assert.ErrorIs(t, reply.Err(), ErrRefused)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := mpvtest.New(t)
		srv.Hang(true)

		c := NewClient(srv.Path, 100*time.Millisecond)
		start := time.Now()
		reply := c.Send(context.Background(), GetProperty(PropPause))
		assert.ErrorIs(t, reply.Err(), ErrTimeout)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("malformed", func(t *testing.T) {
		srv := mpvtest.New(t)
		srv.ReplyRaw("{not json")

		c := NewClient(srv.Path, time.Second)
		reply := c.Send(context.Background(), GetProperty(PropPause))
		assert.ErrorIs(t, reply.Err(), ErrMalformedReply)
	})

	t.Run("command error", func(t *testing.T) {
		srv := mpvtest.New(t)
		srv.Unset(PropDuration)

		c := NewClient(srv.Path, time.Second)
		reply := c.Send(context.Background(), GetProperty(PropDuration))
		assert.ErrorIs(t, reply.Err(), ErrCommandFailed)
		assert.Contains(t, reply.Err().Error(), "property unavailable")
	})
}

func TestReplyAccessors(t *testing.T) {
	tests := []struct {
		name    string
		reply   Reply
		wantErr bool
	}{
		{"number", Success([]byte("3.5")), false},
		{"null", Success([]byte("null")), true},
		{"wrong type", Success([]byte(`"yes"`)), true},
		{"failure", Failure(ErrRefused), true},
		{"zero value", Reply{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.reply.Float()
			if (err != nil) != tt.wantErr {
				t.Errorf("Float() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	b, err := Success([]byte("false")).Bool()
	if err != nil || b {
		t.Errorf("Bool() = %v, %v; want false, nil", b, err)
	}
	if _, err := Success([]byte("1")).Bool(); !errors.Is(err, ErrMalformedReply) {
		t.Errorf("Bool() on a number: err = %v, want ErrMalformedReply", err)
	}
	s, err := Success([]byte(`"idle"`)).Text()
	if err != nil || s != "idle" {
		t.Errorf("Text() = %q, %v", s, err)
	}
	if !errors.Is(Failure(nil).Err(), ErrCommandFailed) {
		t.Error("Failure(nil) should report ErrCommandFailed")
	}
}

func TestCommandString(t *testing.T) {
	if got := LoadFile("u").String(); got != "loadfile u replace" {
		t.Errorf("String() = %q", got)
	}
	if got := SetProperty(PropTimePos, 1.5).String(); got != "set_property time-pos 1.5" {
		t.Errorf("String() = %q", got)
	}
}
