package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tessro/tunewave/internal/catalog"
	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"service": serviceName,
	}
	if s.renderer != nil {
		resp["renderer"] = s.renderer.Info()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	tracks := catalog.Trending()
	s.ctrl.ReplacePlaylist(tracks)
	writeJSON(w, http.StatusOK, tracks)
}

// handleSearch commits complete and partial results to the playlist so
// the response always matches what was stored. A failed search leaves the
// playlist alone and answers with an empty list.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := catalog.NormalizeQuery(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []core.Track{})
		return
	}

	result := s.catalog.Search(r.Context(), q, s.searchLimit)
	outcome := catalog.Classify(result)

	switch outcome {
	case twerrors.Failed:
		s.log.Warn().Err(result.Err()).Str("query", q).Msg("search failed")
		writeJSON(w, http.StatusOK, []core.Track{})
		return
	case twerrors.Partial:
		s.log.Warn().Err(result.Err()).Str("query", q).Int("results", len(result.Data)).Msg("search returned partial results")
	}

	// A request that already ended leaves the playlist alone.
	if err := r.Context().Err(); err != nil {
		s.log.Warn().Err(err).Str("query", q).Msg("search outlived its request, playlist unchanged")
		return
	}

	tracks := result.Data
	if tracks == nil {
		tracks = []core.Track{}
	}
	s.ctrl.ReplacePlaylist(tracks)
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.FormValue("id"))

	move, err := s.ctrl.Play(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"move":   move,
	})
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	cmd := chi.URLParam(r, "cmd")

	switch cmd {
	case "pause":
		delivered := s.ctrl.TogglePause(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"delivered": delivered,
		})
	case "next":
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"move":   s.ctrl.Next(r.Context()),
		})
	case "prev":
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"move":   s.ctrl.Prev(r.Context()),
		})
	default:
		writeError(w, http.StatusBadRequest, twerrors.ErrUnknownCommand.Error()+": "+cmd)
	}
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.FormValue("pos"))
	pos, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, twerrors.ErrInvalidPosition.Error()+": "+strconv.Quote(raw))
		return
	}

	delivered, err := s.ctrl.Seek(r.Context(), pos)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, twerrors.ErrInvalidPosition) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"delivered": delivered,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reporter.Status(r.Context()))
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}
