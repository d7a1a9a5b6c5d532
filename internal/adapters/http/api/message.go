package api

import (
	"context"
	"net/http"

	"github.com/okian/solhttp/internal/domain/model"
	"github.com/okian/solhttp/internal/domain/types"
)

// MessageDependencies signs and verifies messages.
type MessageDependencies interface {
	SignMessage(ctx context.Context, req types.SignMessageRequest) (model.SignedMessage, error)
	VerifyMessage(ctx context.Context, req types.VerifyMessageRequest) (model.Verification, error)
}

// MessageHandler handles message requests.
type MessageHandler struct {
	deps MessageDependencies
	codec
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(deps MessageDependencies, c codec) *MessageHandler {
	return &MessageHandler{deps: deps, codec: c}
}

// HandleSign handles POST /message/sign requests.
func (h *MessageHandler) HandleSign(w http.ResponseWriter, r *http.Request) {
	const op = "api.sign_message"
	var req types.SignMessageRequest
	if err := h.decode(w, r, &req); err != nil {
		h.malformed(w, r, op, err)
		return
	}
	signed, err := h.deps.SignMessage(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeOK(w, signed, "Message signed successfully")
}

// HandleVerify handles POST /message/verify requests. A signature that
// does not match is still a 200 with isValid false.
func (h *MessageHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	const op = "api.verify_message"
	var req types.VerifyMessageRequest
	if err := h.decode(w, r, &req); err != nil {
		h.malformed(w, r, op, err)
		return
	}
	v, err := h.deps.VerifyMessage(r.Context(), req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	msg := "Message verification failed"
	if v.IsValid {
		msg = "Message verification successful"
	}
	writeOK(w, v, msg)
}
