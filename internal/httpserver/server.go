// internal/httpserver/server.go
//
// HTTP server wiring for the MEMOMU backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/modes".
//   - Session endpoints (optional auth): /sessions/*.
//   - Leaderboard and streak endpoints: /leaderboard/*, /streaks/*.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth endpoints: /auth/*; treasury endpoints (require auth): /payments/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the player when a valid token is
//     present; guests play under an anonymous cookie id.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/memomu/internal/catalog"
	"github.com/robalobadob/memomu/internal/daily"
	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/leaderboard"
	"github.com/robalobadob/memomu/internal/payments"
	"github.com/robalobadob/memomu/internal/session"
)

// Config carries the auth and CORS settings.
type Config struct {
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Secure         bool // production cookies: Secure + SameSite=None
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.JWTSecret == "" {
		c.JWTSecret = "dev_secret_change_me"
	}
	if c.JWTExpiresDays <= 0 {
		c.JWTExpiresDays = 14
	}
	if c.CookieName == "" {
		c.CookieName = "memomu_token"
	}
	if c.ClientOrigin == "" {
		c.ClientOrigin = "http://localhost:5173"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	return c
}

// Deps are the collaborators the handlers drive. Daily and Treasury may be nil.
type Deps struct {
	DB       *sql.DB
	Sessions *session.Manager
	Scores   *leaderboard.Fallback
	Daily    *daily.Store
	Treasury *payments.Treasury
	Catalog  *catalog.Catalog
}

// Server bundles the router and its dependencies.
type Server struct {
	r    *chi.Mux
	cfg  Config
	deps Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config, deps Deps) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg.withDefaults(), deps: deps}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(s.cfg.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(s.cfg.ClientOrigin))

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"memomu-go","endpoints":["/health","/modes","POST /sessions","/leaderboard/{mode}","/streaks/{mode}","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/modes", s.handleModes)

	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountSessions(r)
		s.mountDaily(r)
	})
	s.mountBoards(s.r)
	s.mountAuthRoutes()
	s.mountPayments()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets the server be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

// writeError emits {"error": msg} with code.
func writeError(w http.ResponseWriter, code int, msg string) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(b), code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type modesRes struct {
	Modes   []game.Kind      `json:"modes"`
	Avatars []catalog.Avatar `json:"avatars"`
	Gated   bool             `json:"gated"`
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	res := modesRes{Modes: game.Kinds(), Avatars: []catalog.Avatar{}}
	if s.deps.Catalog != nil {
		res.Avatars = s.deps.Catalog.Duel.Avatars
	}
	if s.deps.Sessions != nil {
		res.Gated = s.deps.Sessions.Gated
	}
	writeJSON(w, http.StatusOK, res)
}
