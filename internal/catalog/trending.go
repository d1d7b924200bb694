package catalog

import "github.com/tessro/tunewave/internal/core"

var trending = []struct{ id, title, uploader string }{
	{"V7LwfY5U5WI", "Kesariya - Brahmastra", "Arijit Singh"},
	{"G62C0Vv-1m0", "Pehle Bhi Main - Animal", "Vishal Mishra"},
	{"87V-P6fT9EY", "Tumi Jake Bhalobasho", "Iman Chakraborty"},
	{"N9C776p98rE", "Behula - Shunno", "Shunno"},
	{"n9L_X26W9vQ", "Mon Majhi Re", "Arijit Singh"},
	{"D_yX9G6l9iY", "Lollipop Lagelu", "Pawan Singh"},
	{"FvJ95G65t-0", "Raja Ji", "Pawan Singh"},
}

// Trending returns the curated trending list. Each call returns a new slice.
func Trending() []core.Track {
	out := make([]core.Track, len(trending))
	for i, t := range trending {
		out[i] = core.Track{
			ID:       t.id,
			Title:    t.title,
			Uploader: t.uploader,
			Thumb:    core.ThumbnailURL(t.id),
		}
	}
	return out
}
