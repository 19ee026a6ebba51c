// internal/httpserver/routes_daily.go
//
// HTTP routes for the Daily Challenge.
//   - GET /daily                     today's date key and whether the caller
//                                    has played each mode
//   - GET /daily/leaderboard/{mode}  top 20 results for today (or ?date=)
//
// A daily game itself is an ordinary session created with "daily": true;
// its boards come from the date seed and it can be recorded once per day.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/memomu/internal/daily"
	"github.com/robalobadob/memomu/internal/game"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyStatus)
		r.Get("/leaderboard/{mode}", s.handleDailyLeaderboard)
	})
}

func (s *Server) today() string {
	now := time.Now
	if s.deps.Sessions != nil && s.deps.Sessions.Now != nil {
		now = s.deps.Sessions.Now
	}
	return daily.DateKey(now())
}

type dailyStatusRes struct {
	Date   string             `json:"date"`
	Played map[game.Kind]bool `json:"played"`
}

func (s *Server) handleDailyStatus(w http.ResponseWriter, r *http.Request) {
	res := dailyStatusRes{Date: s.today(), Played: make(map[game.Kind]bool)}
	player := s.playerKey(w, r)
	for _, k := range game.Kinds() {
		played := false
		if s.deps.Daily != nil {
			var err error
			if played, err = s.deps.Daily.AlreadyPlayed(r.Context(), player, k, res.Date); err != nil {
				writeError(w, http.StatusInternalServerError, "server error")
				return
			}
		}
		res.Played[k] = played
	}
	writeJSON(w, http.StatusOK, res)
}

type dailyBoardRes struct {
	Date string         `json:"date"`
	Mode game.Kind      `json:"mode"`
	Top  []daily.Result `json:"top"`
}

func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind, err := game.ParseKind(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.today()
	}
	res := dailyBoardRes{Date: date, Mode: kind, Top: []daily.Result{}}
	if s.deps.Daily != nil {
		rows, err := s.deps.Daily.Leaderboard(r.Context(), kind, date, 20)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		res.Top = rows
	}
	writeJSON(w, http.StatusOK, res)
}
