package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robalobadob/memomu/internal/catalog"
	"github.com/robalobadob/memomu/internal/daily"
	"github.com/robalobadob/memomu/internal/database"
	"github.com/robalobadob/memomu/internal/game"
	"github.com/robalobadob/memomu/internal/leaderboard"
	"github.com/robalobadob/memomu/internal/ledger"
	"github.com/robalobadob/memomu/internal/payments"
	"github.com/robalobadob/memomu/internal/session"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	t        *testing.T
	srv      *httptest.Server
	client   *http.Client
	clock    *clock
	treasury *payments.Treasury
}

func newHarness(t *testing.T, gated bool) *harness {
	t.Helper()
	db, err := database.OpenMigrated(database.Memory)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}

	c := &clock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	scores := leaderboard.NewFallback(leaderboard.NewSQLStore(db), ledger.New(c.Now))
	dailyStore := daily.NewStore(db)
	treasury := payments.NewTreasury(decimal.RequireFromString("10"))
	seed := int64(0)
	mgr := &session.Manager{
		Store: session.NewMemoryStore(),
		Recorder: &session.Recorder{
			Scores:    scores,
			Payments:  treasury,
			Daily:     dailyStore,
			Snapshots: leaderboard.NewSnapshotStore(db),
		},
		Payments:  treasury,
		Catalog:   cat,
		Daily:     dailyStore,
		DailySalt: "test",
		Gated:     gated,
		Now:       c.Now,
		Seed: func() int64 {
			seed++
			return seed
		},
	}
	srv := New(Config{JWTSecret: "test-secret"}, Deps{
		DB: db, Sessions: mgr, Scores: scores, Daily: dailyStore, Treasury: treasury, Catalog: cat,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return &harness{t: t, srv: ts, client: &http.Client{Jar: jar}, clock: c, treasury: treasury}
}

// do sends body as JSON and decodes the response into out when non-nil.
func (h *harness) do(method, path string, body, out any) int {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, h.srv.URL+path, rd)
	req.Header.Set("Content-Type", "application/json")
	res, err := h.client.Do(req)
	if err != nil {
		h.t.Fatal(err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			h.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

func (h *harness) create(body map[string]any) session.Snapshot {
	h.t.Helper()
	var snap session.Snapshot
	if code := h.do(http.MethodPost, "/sessions", body, &snap); code != http.StatusCreated {
		h.t.Fatalf("create %v: status %d", body, code)
	}
	return snap
}

func (h *harness) click(id string, tile int) session.Snapshot {
	h.t.Helper()
	var snap session.Snapshot
	h.do(http.MethodPost, "/sessions/"+id+"/input", map[string]any{"tile": tile}, &snap)
	return snap
}

func TestHealthAndModes(t *testing.T) {
	h := newHarness(t, false)
	var ok map[string]bool
	if code := h.do(http.MethodGet, "/health", nil, &ok); code != http.StatusOK || !ok["ok"] {
		t.Fatalf("health: %d %v", code, ok)
	}
	var modes modesRes
	h.do(http.MethodGet, "/modes", nil, &modes)
	if len(modes.Modes) != 5 || len(modes.Avatars) < catalog.MinAvatars || modes.Gated {
		t.Fatalf("modes = %+v", modes)
	}
	if code := h.do(http.MethodGet, "/nope", nil, nil); code != http.StatusNotFound {
		t.Fatalf("404 route: %d", code)
	}
}

func TestSessionValidation(t *testing.T) {
	h := newHarness(t, false)
	if code := h.do(http.MethodPost, "/sessions", map[string]any{"mode": "pinball"}, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown mode: %d", code)
	}
	if code := h.do(http.MethodGet, "/sessions/missing", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown session: %d", code)
	}
	snap := h.create(map[string]any{"mode": "monluck"})
	path := "/sessions/" + snap.ID + "/input"
	if code := h.do(http.MethodPost, path, map[string]any{}, nil); code != http.StatusBadRequest {
		t.Fatalf("empty input: %d", code)
	}
	if code := h.do(http.MethodPost, path, map[string]any{"action": "jump"}, nil); code != http.StatusBadRequest {
		t.Fatalf("bad action: %d", code)
	}
	if code := h.do(http.MethodDelete, "/sessions/"+snap.ID, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: %d", code)
	}
	if code := h.do(http.MethodGet, "/sessions/"+snap.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("deleted session still served: %d", code)
	}
}

func TestHiddenObjectOverHTTP(t *testing.T) {
	h := newHarness(t, false)
	snap := h.create(map[string]any{"mode": "monluck"})
	if len(snap.View.Tiles) != 30 {
		t.Fatalf("tiles = %d", len(snap.View.Tiles))
	}
	for _, tile := range snap.View.Tiles {
		if tile.Item != "" {
			t.Fatal("unrevealed item leaked to the client")
		}
	}
	for i := 1; i <= game.HiddenAttempts; i++ {
		snap = h.click(snap.ID, i)
	}
	if !snap.View.Terminal || snap.Result == nil || snap.Result.Kind != game.HiddenObject {
		t.Fatalf("game not finished: %+v", snap.View)
	}
}

func TestTimedGameLandsOnLeaderboard(t *testing.T) {
	h := newHarness(t, false)
	snap := h.create(map[string]any{"mode": "memoryClassic", "name": "kim"})
	h.do(http.MethodPost, "/sessions/"+snap.ID+"/input", map[string]any{"action": "start"}, nil)

	h.clock.Advance(31 * time.Second)
	h.do(http.MethodGet, "/sessions/"+snap.ID, nil, &snap)
	if !snap.View.Terminal || snap.Result.Outcome != game.OutcomeFailed || snap.Notice != "" {
		t.Fatalf("after timeout: %+v notice=%q", snap.View, snap.Notice)
	}

	var board boardRes
	if code := h.do(http.MethodGet, "/leaderboard/memoryClassic", nil, &board); code != http.StatusOK {
		t.Fatalf("leaderboard: %d", code)
	}
	if len(board.Entries) != 1 || board.Entries[0].Name != "kim" || board.Notice != "" {
		t.Fatalf("board = %+v", board)
	}
	var q map[string]bool
	h.do(http.MethodGet, "/leaderboard/memoryClassic/qualifies?score=1", nil, &q)
	if !q["qualifies"] {
		t.Fatal("score should qualify on a short board")
	}
	if code := h.do(http.MethodGet, "/leaderboard/battle", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("streak mode on score board: %d", code)
	}
	var streaks streakRes
	if code := h.do(http.MethodGet, "/streaks/battle", nil, &streaks); code != http.StatusOK || len(streaks.Entries) != 0 {
		t.Fatalf("streaks: %d %+v", code, streaks)
	}
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t, false)
	body := map[string]any{"username": "memo_fan", "password": "longenough", "walletId": "0xfeed"}
	var me authUser
	if code := h.do(http.MethodPost, "/auth/signup", body, &me); code != http.StatusCreated || me.ID == "" {
		t.Fatalf("signup: %d %+v", code, me)
	}
	if code := h.do(http.MethodPost, "/auth/signup", body, nil); code != http.StatusConflict {
		t.Fatalf("duplicate signup: %d", code)
	}
	if code := h.do(http.MethodPost, "/auth/signup", map[string]any{"username": "x", "password": "p"}, nil); code != http.StatusBadRequest {
		t.Fatalf("weak signup: %d", code)
	}

	var got authUser
	if code := h.do(http.MethodGet, "/auth/me", nil, &got); code != http.StatusOK || got.WalletID != "0xfeed" {
		t.Fatalf("me: %d %+v", code, got)
	}

	h.do(http.MethodPost, "/auth/logout", nil, nil)
	if code := h.do(http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d", code)
	}
	if code := h.do(http.MethodPost, "/auth/login", map[string]any{"username": "memo_fan", "password": "wrongpass"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", code)
	}
	if code := h.do(http.MethodPost, "/auth/login", map[string]any{"username": "memo_fan", "password": "longenough"}, nil); code != http.StatusOK {
		t.Fatalf("login: %d", code)
	}

	// a signed-in player's scores carry the account identity
	snap := h.create(map[string]any{"mode": "memoryClassic", "name": "ignored"})
	h.do(http.MethodPost, "/sessions/"+snap.ID+"/input", map[string]any{"action": "start"}, nil)
	h.clock.Advance(31 * time.Second)
	h.do(http.MethodGet, "/sessions/"+snap.ID, nil, nil)
	var board boardRes
	h.do(http.MethodGet, "/leaderboard/memoryClassic", nil, &board)
	if len(board.Entries) != 1 || board.Entries[0].Name != "memo_fan" || board.Entries[0].WalletID != "0xfeed" {
		t.Fatalf("board = %+v", board)
	}
}

func TestDailyOncePerDay(t *testing.T) {
	h := newHarness(t, false)
	snap := h.create(map[string]any{"mode": "monluck", "daily": true})
	if snap.Daily != "2025-06-01" {
		t.Fatalf("daily = %q", snap.Daily)
	}
	for i := 1; i <= game.HiddenAttempts; i++ {
		h.click(snap.ID, i)
	}

	var status dailyStatusRes
	h.do(http.MethodGet, "/daily", nil, &status)
	if !status.Played[game.HiddenObject] || status.Played[game.FlashRecall] {
		t.Fatalf("status = %+v", status)
	}
	if code := h.do(http.MethodPost, "/sessions", map[string]any{"mode": "monluck", "daily": true}, nil); code != http.StatusConflict {
		t.Fatalf("second daily: %d", code)
	}
	var board dailyBoardRes
	h.do(http.MethodGet, "/daily/leaderboard/monluck", nil, &board)
	if len(board.Top) != 1 {
		t.Fatalf("daily board = %+v", board)
	}
}

func TestGatedBuyInAndWithdraw(t *testing.T) {
	h := newHarness(t, true)
	if code := h.do(http.MethodPost, "/sessions", map[string]any{"mode": "memoryMemomu", "buyIn": "0.3"}, nil); code != http.StatusPaymentRequired {
		t.Fatalf("bad buy-in: %d", code)
	}
	h.create(map[string]any{"mode": "memoryMemomu", "buyIn": "0.1"})
	if !h.treasury.Pot(game.FlashRecall).Equal(payments.LowBuyIn) {
		t.Fatalf("pot = %s", h.treasury.Pot(game.FlashRecall))
	}

	if code := h.do(http.MethodGet, "/payments/pending", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("pending without auth: %d", code)
	}
	h.do(http.MethodPost, "/auth/signup", map[string]any{"username": "payer", "password": "longenough"}, nil)
	var amt amountRes
	if code := h.do(http.MethodGet, "/payments/pending", nil, &amt); code != http.StatusOK || !amt.Amount.IsZero() {
		t.Fatalf("pending: %d %s", code, amt.Amount)
	}
	if code := h.do(http.MethodPost, "/payments/withdraw", nil, nil); code != http.StatusConflict {
		t.Fatalf("empty withdraw: %d", code)
	}
}
