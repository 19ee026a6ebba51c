// internal/httpserver/routes_sessions.go
//
// Live game sessions.
//   - POST   /sessions            start a session for a mode
//   - GET    /sessions/{id}       catch the clock up and return the view
//   - POST   /sessions/{id}/input click a tile or send a control action
//   - DELETE /sessions/{id}       drop a session
//
// The client polls GET /sessions/{id} to drive timed phases; every response
// carries the full view so the client never keeps game state.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/ledger"
	"github.com/robalobadob/memomu/internal/payments"
	"github.com/robalobadob/memomu/internal/session"
)

func (s *Server) mountSessions(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/input", s.handleInput)
		r.Delete("/{id}", s.handleDeleteSession)
	})
}

type createSessionReq struct {
	Mode     string          `json:"mode"`
	Daily    bool            `json:"daily"`
	Avatar   int             `json:"avatar"`
	BuyIn    decimal.Decimal `json:"buyIn"`
	Wager    decimal.Decimal `json:"wager"`
	Name     string          `json:"name"`
	WalletID string          `json:"walletId"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	kind, err := game.ParseKind(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := ledger.Identity{Name: strings.TrimSpace(req.Name), WalletID: strings.TrimSpace(req.WalletID)}
	if me := currentUser(r); me != nil {
		id = me.identity()
	}
	sess, err := s.deps.Sessions.Create(r.Context(), session.Options{
		Kind:     kind,
		Identity: id,
		Player:   s.playerKey(w, r),
		Daily:    req.Daily,
		Avatar:   req.Avatar,
		BuyIn:    req.BuyIn,
		Wager:    req.Wager,
	})
	switch {
	case errors.Is(err, session.ErrAlreadyPlayed):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, payments.ErrInvalidAmount), errors.Is(err, payments.ErrInsufficient):
		writeError(w, http.StatusPaymentRequired, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess.Sync())
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.deps.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		writeJSON(w, http.StatusOK, sess.Sync())
	}
}

// inputReq carries either a 1-based tile or an action.
type inputReq struct {
	Tile   *int   `json:"tile"`
	Action string `json:"action"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	switch {
	case req.Action != "":
		a, err := game.ParseAction(req.Action)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sess.Act(a))
	case req.Tile != nil:
		// out-of-range tiles are ignored by the mode
		writeJSON(w, http.StatusOK, sess.Input(*req.Tile))
	default:
		writeError(w, http.StatusBadRequest, "tile or action required")
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
