package mpv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// IPC failure kinds. A failed Reply wraps exactly one of these.
var (
	ErrSocketMissing  = errors.New("mpv socket missing")
	ErrRefused        = errors.New("mpv connection refused")
	ErrTimeout        = errors.New("mpv ipc timeout")
	ErrMalformedReply = errors.New("malformed mpv reply")
	ErrCommandFailed  = errors.New("mpv command failed")
)

// errNull is returned by the typed accessors when mpv answered with null,
// which it does for properties like time-pos while nothing is loaded.
var errNull = errors.New("property unavailable")

// Reply is the result of one IPC call: either a raw success payload or an
// error. The zero Reply is a failure.
type Reply struct {
	data json.RawMessage
	err  error
}

// Success wraps a successful payload.
func Success(data json.RawMessage) Reply {
	return Reply{data: data}
}

// Failure wraps an error. A nil err becomes ErrCommandFailed.
func Failure(err error) Reply {
	if err == nil {
		err = ErrCommandFailed
	}
	return Reply{err: err}
}

// OK reports whether mpv acknowledged the command.
func (r Reply) OK() bool {
	return r.err == nil && r.data != nil
}

// Err returns the failure, or nil for a successful reply.
func (r Reply) Err() error {
	if r.err == nil && r.data == nil {
		return ErrCommandFailed
	}
	return r.err
}

// Raw returns the undecoded payload of a successful reply.
func (r Reply) Raw() json.RawMessage {
	return r.data
}

// Float decodes a numeric payload.
func (r Reply) Float() (float64, error) {
	var f float64
	err := r.decode(&f)
	return f, err
}

// Bool decodes a boolean payload.
func (r Reply) Bool() (bool, error) {
	var b bool
	err := r.decode(&b)
	return b, err
}

// Text decodes a string payload.
func (r Reply) Text() (string, error) {
	var s string
	err := r.decode(&s)
	return s, err
}

func (r Reply) decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if bytes.Equal(bytes.TrimSpace(r.data), []byte("null")) {
		return errNull
	}
	if err := json.Unmarshal(r.data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return nil
}
