package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/payments"
)

// mountPayments registers the treasury endpoints when one is configured.
func (s *Server) mountPayments() {
	if s.deps.Treasury == nil {
		return
	}
	s.r.Route("/payments", func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Get("/pending", s.handlePending)
		r.Post("/withdraw", s.handleWithdraw)
	})
}

type amountRes struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, amountRes{Amount: s.deps.Treasury.Pending(currentUser(r).ID)})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	amt, err := s.deps.Treasury.Withdraw(currentUser(r).ID)
	if errors.Is(err, payments.ErrInsufficient) {
		writeError(w, http.StatusConflict, "No winnings available to withdraw")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, amountRes{Amount: amt})
}
