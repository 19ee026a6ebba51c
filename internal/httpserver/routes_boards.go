package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/ledger"
)

// mountBoards registers the read-only ranking endpoints.
func (s *Server) mountBoards(r chi.Router) {
	r.Get("/leaderboard/{mode}", s.handleLeaderboard)
	r.Get("/leaderboard/{mode}/qualifies", s.handleQualifies)
	r.Get("/streaks/{mode}", s.handleStreaks)
}

type boardRes struct {
	Mode    game.Kind      `json:"mode"`
	Entries []ledger.Entry `json:"entries"`
	Notice  string         `json:"notice,omitempty"`
}

type streakRes struct {
	Mode    game.Kind       `json:"mode"`
	Entries []ledger.Streak `json:"entries"`
}

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 || n > ledger.MaxEntries {
		return ledger.MaxEntries
	}
	return n
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind, err := game.ParseKind(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if kind == game.HiddenObject || kind == game.Duel {
		writeError(w, http.StatusBadRequest, "streak mode: use /streaks/"+string(kind))
		return
	}
	entries, notice := s.deps.Scores.HighScores(r.Context(), kind, limitParam(r))
	writeJSON(w, http.StatusOK, boardRes{Mode: kind, Entries: entries, Notice: notice})
}

func (s *Server) handleQualifies(w http.ResponseWriter, r *http.Request) {
	kind, err := game.ParseKind(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	score, err := strconv.Atoi(r.URL.Query().Get("score"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "score required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"qualifies": s.deps.Scores.Ledger().Qualifies(kind, score)})
}

func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	kind, err := game.ParseKind(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.deps.Scores.Ledger().Streaks(kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, streakRes{Mode: kind, Entries: list})
}
