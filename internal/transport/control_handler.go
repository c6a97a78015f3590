// Package transport exposes the operator-facing HTTP control surface.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tokenpulse/tokenpulse-backend/internal/control"
	"github.com/tokenpulse/tokenpulse-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Controller mediates the runtime control state.
type Controller interface {
	Status(ctx context.Context) (model.RuntimeConfig, error)
	Toggle(ctx context.Context, enabled bool) error
	ResetKillSwitch(ctx context.Context) error
}

// CursorReader lists the persisted ingestion cursors for status reporting.
type CursorReader interface {
	IngestCursors(ctx context.Context) ([]model.Cursor, error)
}

// ControlHandler serves the ingestion control endpoints.
type ControlHandler struct {
	control Controller
	cursors CursorReader
	logger  *zap.Logger
}

func NewControlHandler(control Controller, cursors CursorReader, logger *zap.Logger) *ControlHandler {
	return &ControlHandler{
		control: control,
		cursors: cursors,
		logger:  logger,
	}
}

// Register mounts the control routes on mux.
func (h *ControlHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/ingestion/status", h.status)
	mux.HandleFunc("POST /api/ingestion/enable", h.enable)
	mux.HandleFunc("POST /api/ingestion/disable", h.disable)
	mux.HandleFunc("POST /api/ingestion/killswitch/reset", h.resetKillSwitch)
}

type statusResponse struct {
	Enabled         bool         `json:"enabled"`
	Mode            string       `json:"mode"`
	KillSwitchArmed bool         `json:"kill_switch_armed"`
	KillReason      string       `json:"kill_reason,omitempty"`
	LastBlock       uint64       `json:"last_block"`
	LastProvider    string       `json:"last_provider,omitempty"`
	LastRun         time.Time    `json:"last_run"`
	Backlog         uint64       `json:"backlog"`
	EventsIngested  uint64       `json:"events_ingested"`
	Duplicates      uint64       `json:"duplicates"`
	Errors          uint64       `json:"errors"`
	CountersSince   time.Time    `json:"counters_since"`
	Feeds           []feedStatus `json:"feeds"`
}

type feedStatus struct {
	ChainID            uint64    `json:"chain_id"`
	Address            string    `json:"address"`
	LastProcessedBlock uint64    `json:"last_processed_block"`
	LastBlockTime      time.Time `json:"last_block_time"`
	Mode               string    `json:"mode"`
	Provider           string    `json:"provider,omitempty"`
}

type actionResponse struct {
	Enabled         bool `json:"enabled"`
	KillSwitchArmed bool `json:"kill_switch_armed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *ControlHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ControlHandler) status(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.control.Status(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cursors, err := h.cursors.IngestCursors(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := statusResponse{
		Enabled:         cfg.Enabled,
		Mode:            string(cfg.Mode),
		KillSwitchArmed: cfg.KillSwitchArmed,
		KillReason:      cfg.KillReason,
		LastBlock:       cfg.LastBlock,
		LastProvider:    cfg.LastProvider,
		LastRun:         cfg.LastRun,
		Backlog:         backlog(cfg.LastBlock, cursors),
		EventsIngested:  cfg.EventsIngested,
		Duplicates:      cfg.Duplicates,
		Errors:          cfg.Errors,
		CountersSince:   cfg.CountersSince,
		Feeds:           make([]feedStatus, 0, len(cursors)),
	}
	for _, c := range cursors {
		resp.Feeds = append(resp.Feeds, feedStatus{
			ChainID:            c.ChainID,
			Address:            c.Address,
			LastProcessedBlock: c.LastProcessedBlock,
			LastBlockTime:      c.LastBlockTime,
			Mode:               string(c.Mode),
			Provider:           c.Provider,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ControlHandler) enable(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

func (h *ControlHandler) disable(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *ControlHandler) toggle(w http.ResponseWriter, r *http.Request, enabled bool) {
	if err := h.control.Toggle(r.Context(), enabled); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeActionResult(w, r)
}

func (h *ControlHandler) resetKillSwitch(w http.ResponseWriter, r *http.Request) {
	if err := h.control.ResetKillSwitch(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeActionResult(w, r)
}

func (h *ControlHandler) writeActionResult(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.control.Status(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, actionResponse{
		Enabled:         cfg.Enabled,
		KillSwitchArmed: cfg.KillSwitchArmed,
	})
}

func (h *ControlHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, control.ErrBlockedByEnv) || errors.Is(err, control.ErrBlockedByKillSwitch) {
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("control request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *ControlHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response", zap.Error(err))
	}
}

// backlog is the distance from the slowest feed to the last safe head the
// ingester observed. Zero when no cursor exists yet.
func backlog(lastBlock uint64, cursors []model.Cursor) uint64 {
	if len(cursors) == 0 {
		return 0
	}

	minBlock := cursors[0].LastProcessedBlock
	for _, c := range cursors[1:] {
		if c.LastProcessedBlock < minBlock {
			minBlock = c.LastProcessedBlock
		}
	}
	if minBlock >= lastBlock {
		return 0
	}
	return lastBlock - minBlock
}
