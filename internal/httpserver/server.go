package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bridgetools/bba-go/internal/store"
	"github.com/bridgetools/bba-go/pkg/bba"
	"github.com/bridgetools/bba-go/pkg/bba/logging"
	"github.com/bridgetools/bba-go/pkg/runner"
)

// Server exposes auction generation and the auction archive over HTTP.
type Server struct {
	runner  *runner.Runner
	store   *store.Store
	log     logging.Logger
	timeout time.Duration
}

// New builds a server around a configured runner and archive.
func New(r *runner.Runner, st *store.Store, log logging.Logger, timeout time.Duration) *Server {
	if log == nil {
		log = logging.New(nil)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{runner: r, store: st, log: log, timeout: timeout}
}

// Routes returns the HTTP handler for the whole API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/auction/generate", s.handleGenerate)
	r.Route("/api/auctions", func(r chi.Router) {
		r.Get("/", s.handleListAuctions)
		r.Get("/{id}", s.handleGetAuction)
	})
	return r
}

type dealRequest struct {
	PBN           string `json:"pbn"`
	Dealer        string `json:"dealer"`
	Vulnerability string `json:"vulnerability"`
	Scoring       string `json:"scoring,omitempty"` // accepted, not used for bidding
}

type generateRequest struct {
	Deal dealRequest `json:"deal"`
	// Scenario labels the board type for logs; it never reaches the engine.
	Scenario string `json:"scenario,omitempty"`
}

type generateResponse struct {
	Deal     string   `json:"deal"`
	Auction  []string `json:"auction"`
	Contract string   `json:"contract,omitempty"`
	Success  bool     `json:"success"`
	Error    string   `json:"error,omitempty"`
	ID       int64    `json:"id,omitempty"`
}

type auctionView struct {
	ID            int64     `json:"id"`
	Deal          string    `json:"deal"`
	Dealer        string    `json:"dealer"`
	Vulnerability string    `json:"vulnerability"`
	Auction       []string  `json:"auction"`
	Contract      string    `json:"contract"`
	CreatedAt     time.Time `json:"created_at"`
}

func viewOf(a store.Auction) auctionView {
	return auctionView{
		ID:            a.ID,
		Deal:          a.Deal,
		Dealer:        a.Dealer.String(),
		Vulnerability: a.Vulnerability.String(),
		Auction:       a.Calls,
		Contract:      a.Contract,
		CreatedAt:     a.CreatedAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.CountAuctions(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "health: count auctions", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"auctions": n,
		"version":  bba.WrapperVersion(),
		"engine":   bba.EngineVersion(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, generateResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	dealer, err := bba.ParseSeat(req.Deal.Dealer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, generateResponse{Deal: req.Deal.PBN, Error: err.Error()})
		return
	}
	vul, err := bba.ParseVulnerability(req.Deal.Vulnerability)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, generateResponse{Deal: req.Deal.PBN, Error: err.Error()})
		return
	}

	calls, err := s.runner.Deal(ctx, req.Deal.PBN, dealer, vul)
	if err != nil {
		status := http.StatusInternalServerError
		switch bba.CodeOf(err) {
		case bba.CodeInvalidHand, bba.CodeInvalidDealer, bba.CodeInvalidVulnerability:
			status = http.StatusBadRequest
		case bba.CodeBiddingFailed, bba.CodeEngineFault:
			status = http.StatusBadGateway
		}
		s.log.Warn(ctx, "generate failed", "deal", req.Deal.PBN, "scenario", req.Scenario, "err", err)
		writeJSON(w, status, generateResponse{Deal: req.Deal.PBN, Error: err.Error()})
		return
	}

	contract := contractOf(dealer, calls)
	s.log.Debug(ctx, "auction generated", "scenario", req.Scenario, "calls", len(calls), "contract", contract)
	resp := generateResponse{
		Deal:     req.Deal.PBN,
		Auction:  calls,
		Contract: contract,
		Success:  true,
	}
	id, err := s.store.SaveAuction(ctx, store.Auction{
		Deal:          req.Deal.PBN,
		Dealer:        dealer,
		Vulnerability: vul,
		Calls:         calls,
		Contract:      contract,
	})
	if err != nil {
		// The auction was still produced; archiving is best effort.
		s.log.Error(ctx, "archive auction", "err", err)
	} else {
		resp.ID = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAuctions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "limit must be an integer"})
			return
		}
		limit = n
	}
	auctions, err := s.store.ListAuctions(r.Context(), limit)
	if err != nil {
		s.log.Error(r.Context(), "list auctions", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "archive unavailable"})
		return
	}
	views := make([]auctionView, 0, len(auctions))
	for _, a := range auctions {
		views = append(views, viewOf(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"auctions": views})
}

func (s *Server) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "id must be an integer"})
		return
	}
	a, err := s.store.GetAuction(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "auction not found"})
			return
		}
		s.log.Error(r.Context(), "get auction", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "archive unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(a))
}

// contractOf replays the auction to name its final contract.
func contractOf(dealer bba.Seat, calls []string) string {
	a := bba.NewAuction(dealer)
	for _, call := range calls {
		a.Record(call)
	}
	return a.Contract()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
