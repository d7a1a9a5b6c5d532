package api

import (
	"context"
	"net/http"

	"github.com/okian/solhttp/internal/domain/model"
)

// KeypairDependencies generates keypairs.
type KeypairDependencies interface {
	GenerateKeypair(ctx context.Context) (model.KeyPair, error)
}

// KeypairHandler handles keypair requests.
type KeypairHandler struct {
	deps KeypairDependencies
	codec
}

// NewKeypairHandler creates a new keypair handler.
func NewKeypairHandler(deps KeypairDependencies, c codec) *KeypairHandler {
	return &KeypairHandler{deps: deps, codec: c}
}

// HandleGenerate handles POST /keypair requests. The body is ignored.
func (h *KeypairHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_keypair"
	kp, err := h.deps.GenerateKeypair(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeOK(w, kp, "Keypair generated successfully")
}
