package api

import (
	"context"
	"net/http"

	"github.com/okian/solhttp/internal/domain/model"
	"github.com/okian/solhttp/internal/domain/types"
)

// TransferDependencies builds SOL and token transfer instructions.
type TransferDependencies interface {
	SendSOL(ctx context.Context, req types.SendSOLRequest) (model.Instruction, error)
	SendToken(ctx context.Context, req types.SendTokenRequest) (model.Instruction, error)
}

// TransferHandler handles transfer requests.
type TransferHandler struct {
	deps TransferDependencies
	codec
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(deps TransferDependencies, c codec) *TransferHandler {
	return &TransferHandler{deps: deps, codec: c}
}

// HandleSOL handles POST /send/sol requests.
func (h *TransferHandler) HandleSOL(w http.ResponseWriter, r *http.Request) {
	const op = "api.send_sol"
	var req types.SendSOLRequest
	if err := h.decode(w, r, &req); err != nil {
		h.malformed(w, r, op, err)
		return
	}
	inst, err := h.deps.SendSOL(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeOK(w, inst, "SOL transfer instruction created successfully")
}

// HandleToken handles POST /send/token requests.
func (h *TransferHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	const op = "api.send_token"
	var req types.SendTokenRequest
	if err := h.decode(w, r, &req); err != nil {
		h.malformed(w, r, op, err)
		return
	}
	inst, err := h.deps.SendToken(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeOK(w, inst, "Token transfer instruction created successfully")
}
