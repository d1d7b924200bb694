package playback

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tessro/tunewave/internal/core"
	"github.com/tessro/tunewave/internal/mpv"
)

// fakeRenderer records commands and answers get_property from props.
type fakeRenderer struct {
	mu       sync.Mutex
	commands []mpv.Command
	props    map[string]string
	down     bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{props: map[string]string{}}
}

func (f *fakeRenderer) Send(_ context.Context, cmd mpv.Command) mpv.Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)

	if f.down {
		return mpv.Failure(mpv.ErrSocketMissing)
	}
	if cmd.Name == "get_property" {
		raw, ok := f.props[cmd.Args[0].(string)]
		if !ok {
			return mpv.Failure(mpv.ErrCommandFailed)
		}
		return mpv.Success(json.RawMessage(raw))
	}
	return mpv.Success(json.RawMessage("null"))
}

func (f *fakeRenderer) loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var urls []string
	for _, c := range f.commands {
		if c.Name == "loadfile" {
			urls = append(urls, c.Args[0].(string))
		}
	}
	return urls
}

func (f *fakeRenderer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commands)
}

func tracks(ids ...string) []core.Track {
	out := make([]core.Track, len(ids))
	for i, id := range ids {
		out[i] = core.Track{ID: id, Title: "Title " + id, Uploader: "Uploader " + id}
	}
	return out
}

func url(id string) string {
	return core.URL(core.DefaultURLTemplate, id)
}
