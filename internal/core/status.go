package core

import "time"

// Status is the polled status document.
type Status struct {
	Time     float64 `json:"time"`
	Duration float64 `json:"duration"`
	Paused   bool    `json:"paused"`
	Idle     bool    `json:"idle"`
	Meta     Track   `json:"meta"`
}

// HasTrack returns true if something has been committed to the renderer.
func (s *Status) HasTrack() bool {
	return s != nil && s.Meta.ID != ""
}

// Position returns the playback position as a duration.
func (s *Status) Position() time.Duration {
	if s == nil {
		return 0
	}
	return seconds(s.Time)
}

// Length returns the track duration.
func (s *Status) Length() time.Duration {
	if s == nil {
		return 0
	}
	return seconds(s.Duration)
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *Status) ProgressPercent() float64 {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	pct := s.Time / s.Duration * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// RendererInfo describes the supervised renderer process.
type RendererInfo struct {
	Binary string `json:"binary"`
	Socket string `json:"socket"`
	PID    int    `json:"pid"`
	Alive  bool   `json:"alive"`
}
