package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yourusername/zdengine/internal/dicestate"
	"github.com/yourusername/zdengine/pkg/solver"
)

var (
	errInvalidJSON   = errors.New("invalid JSON")
	errInvalidPlayer = errors.New("player must be 0 or 1")
	errNegativeScore = errors.New("scores and turn total must not be negative")
)

// Handlers holds the HTTP handlers and the solved table they answer from.
type Handlers struct {
	solver  *solver.Solver
	version string
	pool    *WorkerPool
}

// NewHandlers creates a Handlers instance. pool may be nil to run without
// concurrency limits.
func NewHandlers(s *solver.Solver, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		solver:  s,
		version: version,
		pool:    pool,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// decodeState validates a state request and resolves its dice counters.
func decodeState(r *http.Request) (StateRequest, dicestate.Counts, error) {
	var req StateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, dicestate.Counts{}, errInvalidJSON
	}
	counts, err := req.Dice.Counts()
	if err != nil {
		return req, dicestate.Counts{}, err
	}
	if req.Player != 0 && req.Player != 1 {
		return req, dicestate.Counts{}, errInvalidPlayer
	}
	if req.Score < 0 || req.Opponent < 0 || req.TurnTotal < 0 {
		return req, dicestate.Counts{}, errNegativeScore
	}
	return req, counts, nil
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	cfg := h.solver.Config()
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.solver != nil,
		Goal:    cfg.Goal,
		Ceiling: cfg.Ceiling,
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// Action handles POST /api/action
func (h *Handlers) Action(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireQuery(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseQuery()
	}

	req, counts, err := decodeState(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_STATE")
		return
	}

	ds := h.solver.Universe().Index(dicestate.Encode(counts))
	action := "hold"
	if h.solver.WillRoll(req.Player, req.Score, req.Opponent, req.TurnTotal, counts) {
		action = "roll"
	}
	writeJSON(w, http.StatusOK, ActionResponse{
		Action:  action,
		WinProb: h.solver.WinProb(req.Player, req.Score, req.Opponent, req.TurnTotal, ds),
	})
}

// WinProb handles POST /api/winprob
func (h *Handlers) WinProb(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireQuery(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseQuery()
	}

	req, counts, err := decodeState(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_STATE")
		return
	}

	ds := h.solver.Universe().Index(dicestate.Encode(counts))
	writeJSON(w, http.StatusOK, WinProbResponse{
		WinProb: h.solver.WinProb(req.Player, req.Score, req.Opponent, req.TurnTotal, ds),
	})
}

// Simulate handles POST /api/simulate
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireSim(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSim()
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.Games <= 0 || req.Games > maxSimulateGames {
		writeError(w, http.StatusBadRequest, "games must be between 1 and 1000000", "INVALID_GAMES")
		return
	}

	var opponent solver.Policy
	switch req.Opponent {
	case "", "optimal":
		opponent = h.solver
	case "thresholds":
		opponent = solver.HoldThresholds{Goal: h.solver.Config().Goal}
	default:
		writeError(w, http.StatusBadRequest, "unknown opponent", "INVALID_OPPONENT")
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = 1
	}
	res := solver.Compare(h.solver, opponent, h.solver.Config(), req.Games, seed)
	lo, hi := res.ConfidenceInterval(0)
	writeJSON(w, http.StatusOK, SimulateResponse{
		Games:        res.Games,
		Wins:         res.Wins[0],
		OpponentWins: res.Wins[1],
		WinRate:      res.WinRate(0),
		CILow:        lo,
		CIHigh:       hi,
	})
}

const maxSimulateGames = 1_000_000
