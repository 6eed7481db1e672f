package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/internal/bot"
	"github.com/lox/monopolyforbots/internal/config"
	"github.com/lox/monopolyforbots/internal/fuzzy"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/store"
)

// Server hosts games over HTTP with a websocket event stream per game.
type Server struct {
	cfg      *config.Config
	manager  *GameManager
	router   *mux.Router
	upgrader websocket.Upgrader
	logger   zerolog.Logger
	policy   fuzzy.Policy
}

// Option configures a Server.
type Option func(*options)

type options struct {
	clock  quartz.Clock
	delays *bot.Delays
}

// WithClock sets the clock bots wait on.
func WithClock(c quartz.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithDelays overrides the bot delays derived from the server settings.
func WithDelays(d bot.Delays) Option {
	return func(o *options) { o.delays = &d }
}

// NewServer creates a server for cfg that persists games to st.
func NewServer(cfg *config.Config, st store.Store, logger zerolog.Logger, opts ...Option) *Server {
	o := options{clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(&o)
	}
	delays := bot.DefaultDelays().Scale(cfg.Server.DelayScale)
	if o.delays != nil {
		delays = *o.delays
	}

	logger = logger.With().Str("component", "server").Logger()
	s := &Server{
		cfg:     cfg,
		manager: NewGameManager(cfg, st, o.clock, delays, logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Manager returns the session manager.
func (s *Server) Manager() *GameManager { return s.manager }

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.cors, s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/boards", s.handleBoards).Methods(http.MethodGet)
	r.HandleFunc("/fuzzy", s.handleFuzzy).Methods(http.MethodGet)

	r.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet)
	r.HandleFunc("/games", s.handleCreateGame).Methods(http.MethodPost)

	r.HandleFunc("/games/{id}", s.handleGetGame).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}", s.handleDeleteGame).Methods(http.MethodDelete)
	r.HandleFunc("/games/{id}/ws", s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}/roll", s.action(func(ctx context.Context, sess *Session, _ int) (ActionResult, error) {
		return sess.Roll(ctx)
	}, false)).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/buy", s.action(func(ctx context.Context, sess *Session, _ int) (ActionResult, error) {
		return sess.Buy(ctx)
	}, false)).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/upgrade", s.action(func(ctx context.Context, sess *Session, block int) (ActionResult, error) {
		return sess.Upgrade(ctx, block)
	}, true)).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/sell", s.action(func(ctx context.Context, sess *Session, block int) (ActionResult, error) {
		return sess.Sell(ctx, block)
	}, true)).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/end-turn", s.action(func(ctx context.Context, sess *Session, _ int) (ActionResult, error) {
		return sess.EndTurn(ctx)
	}, false)).Methods(http.MethodPost)
	r.HandleFunc("/games/{id}/jail-card", s.action(func(ctx context.Context, sess *Session, _ int) (ActionResult, error) {
		return sess.UseJailCard(ctx)
	}, false)).Methods(http.MethodPost)

	return r
}

// Start serves on the configured address until ctx is done, then shuts down
// and closes every session.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.manager.CloseAll()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.manager.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// BoardInfo describes a configured board.
type BoardInfo struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Default bool            `json:"default"`
	Blocks  []game.BlockDef `json:"blocks"`
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	var out []BoardInfo
	for _, key := range s.cfg.Keys() {
		defs, err := s.cfg.Board(key)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, BoardInfo{
			Key:     key,
			Name:    s.cfg.BoardName(key),
			Default: key == s.cfg.Game.Board,
			Blocks:  defs,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFuzzy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	balance, ok := finiteParam(w, q, "balance")
	if !ok {
		return
	}

	var res fuzzy.Result
	switch {
	case q.Has("tax"):
		tax, ok := finiteParam(w, q, "tax")
		if !ok {
			return
		}
		res = s.policy.ApplyTaxAndDecide(balance, tax)
	case q.Has("bonus"):
		bonus, ok := finiteParam(w, q, "bonus")
		if !ok {
			return
		}
		res = s.policy.ApplyBonusAndDecide(balance, bonus)
	default:
		res = s.policy.Evaluate(balance)
	}
	writeJSON(w, http.StatusOK, res)
}

// finiteParam parses a query number, writing a 400 for anything that is not
// a finite float.
func finiteParam(w http.ResponseWriter, q url.Values, name string) (float64, bool) {
	v, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: name + " must be a finite number"})
		return 0, false
	}
	return v, true
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.manager.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	sess, err := s.manager.Create(r.Context(), req)
	if err != nil && sess == nil {
		s.writeError(w, err)
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("game_id", sess.ID).Msg("game created but not saved")
	}
	w.Header().Set("Location", "/games/"+sess.ID)
	writeJSON(w, http.StatusCreated, gameBody{Summary: sess.Summary(), State: sess.State()})
}

type gameBody struct {
	Summary
	State *game.Snapshot `json:"state"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameBody{Summary: sess.Summary(), State: sess.State()})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type blockRequest struct {
	Block *int `json:"block"`
}

type actionFunc func(ctx context.Context, sess *Session, block int) (ActionResult, error)

func (s *Server) action(fn actionFunc, needsBlock bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.manager.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			s.writeError(w, err)
			return
		}

		block := game.NoOwner
		if needsBlock {
			var req blockRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Block == nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "body must be {\"block\": <index>}"})
				return
			}
			block = *req.Block
		}

		res, err := fn(r.Context(), sess, block)
		if err != nil && res.State == nil {
			s.writeError(w, err)
			return
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("game_id", sess.ID).Msg("action applied but not saved")
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}
	c := NewConnection(conn, s.logger)
	c.Start()
	sess.Spectate(c)
}

type errorBody struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrUnknownBoard),
		errors.Is(err, store.ErrInvalidID),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrNoBlock):
		return http.StatusBadRequest
	case errors.Is(err, ErrBotsPlaying),
		errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrFinished),
		errors.Is(err, ErrNotRolled),
		errors.Is(err, ErrRolled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
