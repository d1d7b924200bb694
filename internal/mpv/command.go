// Package mpv talks to an mpv process over its JSON IPC socket and keeps
// that process running.
package mpv

import (
	"fmt"
	"strings"
)

// Properties read by the status reporter.
const (
	PropTimePos    = "time-pos"
	PropDuration   = "duration"
	PropPause      = "pause"
	PropIdleActive = "idle-active"
)

// Command is one named mpv IPC command with its arguments.
type Command struct {
	Name string
	Args []any
}

// LoadFile replaces whatever is playing with url.
func LoadFile(url string) Command {
	return Command{Name: "loadfile", Args: []any{url, "replace"}}
}

// GetProperty reads a property.
func GetProperty(name string) Command {
	return Command{Name: "get_property", Args: []any{name}}
}

// SetProperty writes a property.
func SetProperty(name string, value any) Command {
	return Command{Name: "set_property", Args: []any{name, value}}
}

// Cycle toggles a property, e.g. Cycle(PropPause).
func Cycle(name string) Command {
	return Command{Name: "cycle", Args: []any{name}}
}

func (c Command) wire() []any {
	return append([]any{c.Name}, c.Args...)
}

func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, " ")
}
