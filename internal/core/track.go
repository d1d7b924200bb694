package core

import "fmt"

// Track is one playable item from the catalog.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Uploader string `json:"uploader"`
	Thumb    string `json:"thumb"`
}

// NothingPlaying is the NowPlaying value before anything has been loaded.
var NothingPlaying = Track{Title: "Not Playing"}

// IsPlaceholder reports whether t is the empty NowPlaying placeholder.
func (t Track) IsPlaceholder() bool {
	return t.ID == ""
}

// DefaultURLTemplate maps a track id to a URL the renderer can open.
const DefaultURLTemplate = "https://www.youtube.com/watch?v=%s"

// URL returns the renderer URL for id using template, falling back to
// DefaultURLTemplate when template is empty.
func URL(template, id string) string {
	if template == "" {
		template = DefaultURLTemplate
	}
	return fmt.Sprintf(template, id)
}

// ThumbnailURL returns the standard YouTube thumbnail for id.
func ThumbnailURL(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", id)
}
