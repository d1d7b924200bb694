package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single IPC call when none is configured.
const DefaultTimeout = 1500 * time.Millisecond

const maxLineSize = 1 << 20

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type response struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Event     string          `json:"event"`
	RequestID *int64          `json:"request_id"`
}

// Client sends commands to mpv. Every call opens its own connection, so a
// Client is safe for concurrent use.
type Client struct {
	socketPath string
	timeout    time.Duration
	nextID     atomic.Int64
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for failed calls.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the socket at socketPath.
func NewClient(socketPath string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		socketPath: socketPath,
		timeout:    timeout,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send issues cmd and waits for its reply. It never returns an error
// directly: transport and mpv failures come back as a failed Reply.
func (c *Client) Send(ctx context.Context, cmd Command) Reply {
	reply := c.send(ctx, cmd)
	if err := reply.Err(); err != nil {
		c.log.Debug().Err(err).Str("command", cmd.String()).Msg("ipc call failed")
	}
	return reply
}

func (c *Client) send(ctx context.Context, cmd Command) Reply {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return Failure(classify(err))
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return Failure(fmt.Errorf("set deadline: %w", err))
		}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	id := c.nextID.Add(1)
	payload, err := json.Marshal(request{Command: cmd.wire(), RequestID: id})
	if err != nil {
		return Failure(fmt.Errorf("%w: marshal: %v", ErrCommandFailed, err))
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return Failure(classify(err))
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg response
		if err := json.Unmarshal(line, &msg); err != nil {
			return Failure(fmt.Errorf("%w: %v", ErrMalformedReply, err))
		}
		if msg.Event != "" {
			continue
		}
		if msg.RequestID != nil && *msg.RequestID != id {
			continue
		}
		if msg.Error != "" && msg.Error != "success" {
			return Failure(fmt.Errorf("%w: %s: %s", ErrCommandFailed, cmd.Name, msg.Error))
		}
		if msg.Data == nil {
			msg.Data = json.RawMessage("null")
		}
		return Success(msg.Data)
	}

	err = scanner.Err()
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return Failure(classify(err))
}

// classify maps a transport error onto one of the package's sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrSocketMissing, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: %v", ErrRefused, err)
	case errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrMalformedReply, err)
}
