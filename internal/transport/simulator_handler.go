// Package transport exposes the simulator over HTTP.
package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/ledger"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// SimulatorHandler serves the REST endpoints of the simulator.
type SimulatorHandler struct {
	sim       Simulator
	logger    *zap.Logger
	marshaler gwruntime.Marshaler
}

// NewSimulatorHandler returns a SimulatorHandler instance.
func NewSimulatorHandler(sim Simulator, logger *zap.Logger) *SimulatorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatorHandler{
		sim:       sim,
		logger:    logger,
		marshaler: &gwruntime.JSONBuiltin{},
	}
}

// Register mounts the handlers on mux.
func (h *SimulatorHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/v1/state", h.State},
		{http.MethodGet, "/v1/blocks", h.Blocks},
		{http.MethodGet, "/v1/blocks/{id}", h.Block},
		{http.MethodPost, "/v1/progress", h.Progress},
		{http.MethodGet, "/v1/verify", h.Verify},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return fmt.Errorf("register %s %s: %w", r.method, r.pattern, err)
		}
	}
	return nil
}

// State returns the full simulator snapshot.
func (h *SimulatorHandler) State(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	h.write(w, http.StatusOK, toStateResponse(h.sim.Snapshot()))
}

// Blocks returns committed blocks newest first, optionally only the last limit of them.
func (h *SimulatorHandler) Blocks(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	blocks := h.sim.Snapshot().Blocks

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.write(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		if limit < len(blocks) {
			blocks = blocks[len(blocks)-limit:]
		}
	}

	h.write(w, http.StatusOK, toBlockResponses(blocks))
}

// Block returns one block by id.
func (h *SimulatorHandler) Block(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	id, err := strconv.Atoi(params["id"])
	if err != nil || id < 1 {
		h.write(w, http.StatusBadRequest, errorResponse{Error: "block id must be a positive integer"})
		return
	}

	b, ok := h.sim.Block(id)
	if !ok {
		h.write(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("block %d not found", id)})
		return
	}
	h.write(w, http.StatusOK, toBlockResponse(b))
}

// Progress starts a transaction for the active stage. A request made while another
// transaction is in flight changes nothing and reports the one in flight.
func (h *SimulatorHandler) Progress(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	tx, ok := h.sim.Trigger()
	if !ok {
		h.write(w, http.StatusConflict, progressResponse{Accepted: false, Pending: h.sim.Snapshot().Pending})
		return
	}

	h.logger.Debug("progress accepted", zap.String("to", tx.To))
	h.write(w, http.StatusAccepted, progressResponse{Accepted: true, Pending: &tx})
}

// Verify recomputes the chain and reports the first invalid block, if any.
func (h *SimulatorHandler) Verify(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	height, err := h.sim.Verify()
	if err == nil {
		h.write(w, http.StatusOK, verifyResponse{Valid: true, Height: height})
		return
	}

	resp := verifyResponse{Valid: false, Height: height, Reason: err.Error()}
	var verr *ledger.VerifyError
	if errors.As(err, &verr) {
		resp.BlockID = verr.BlockID
		resp.Reason = verr.Err.Error()
	}
	h.logger.Warn("chain verification failed", zap.Error(err))
	h.write(w, http.StatusOK, resp)
}

func (h *SimulatorHandler) write(w http.ResponseWriter, status int, v interface{}) {
	body, err := h.marshaler.Marshal(v)
	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.marshaler.ContentType(v))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}
