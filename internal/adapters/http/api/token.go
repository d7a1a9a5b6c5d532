package api

import (
	"context"
	"net/http"

	"github.com/okian/solhttp/internal/domain/model"
	"github.com/okian/solhttp/internal/domain/types"
)

// TokenDependencies builds SPL Token mint instructions.
type TokenDependencies interface {
	CreateToken(ctx context.Context, req types.CreateTokenRequest) (model.Instruction, error)
	MintToken(ctx context.Context, req types.MintTokenRequest) (model.Instruction, error)
}

// TokenHandler handles token requests.
type TokenHandler struct {
	deps TokenDependencies
	codec
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(deps TokenDependencies, c codec) *TokenHandler {
	return &TokenHandler{deps: deps, codec: c}
}

// HandleCreate handles POST /token/create requests.
func (h *TokenHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_token"
	var req types.CreateTokenRequest
	if err := h.decode(w, r, &req); err != nil {
		h.malformed(w, r, op, err)
		return
	}
	inst, err := h.deps.CreateToken(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeOK(w, inst, "Token mint instruction created successfully")
}

// HandleMint handles POST /token/mint requests.
func (h *TokenHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	const op = "api.mint_token"
	var req types.MintTokenRequest
	if err := h.decode(w, r, &req); err != nil {
		h.malformed(w, r, op, err)
		return
	}
	inst, err := h.deps.MintToken(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeOK(w, inst, "Mint instruction created successfully")
}
