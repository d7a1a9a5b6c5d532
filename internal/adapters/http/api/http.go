// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/solhttp/internal/domain/model"
	"github.com/okian/solhttp/internal/domain/types"
	"github.com/okian/solhttp/pkg/logger"
)

// DefaultMaxBodyBytes caps request bodies when no option overrides it.
const DefaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Version() string
	Health(ctx context.Context) types.Health

	GenerateKeypair(ctx context.Context) (model.KeyPair, error)
	CreateToken(ctx context.Context, req types.CreateTokenRequest) (model.Instruction, error)
	MintToken(ctx context.Context, req types.MintTokenRequest) (model.Instruction, error)
	SignMessage(ctx context.Context, req types.SignMessageRequest) (model.SignedMessage, error)
	VerifyMessage(ctx context.Context, req types.VerifyMessageRequest) (model.Verification, error)
	SendSOL(ctx context.Context, req types.SendSOLRequest) (model.Instruction, error)
	SendToken(ctx context.Context, req types.SendTokenRequest) (model.Instruction, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxBodyBytes   int64
	metricsEnabled bool
	extraEndpoints []types.EndpointInfo
	log            logger.Logger

	infoHandler     *InfoHandler
	healthHandler   *HealthHandler
	metricsHandler  http.Handler
	keypairHandler  *KeypairHandler
	tokenHandler    *TokenHandler
	messageHandler  *MessageHandler
	transferHandler *TransferHandler
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithMetricsEndpoint toggles GET /metrics.
func WithMetricsEndpoint(enabled bool) Option {
	return func(s *Server) { s.metricsEnabled = enabled }
}

// WithExtraEndpoints lists routes registered outside this package on GET /.
func WithExtraEndpoints(eps ...types.EndpointInfo) Option {
	return func(s *Server) { s.extraEndpoints = append(s.extraEndpoints, eps...) }
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxBodyBytes:   DefaultMaxBodyBytes,
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("api")
	}

	c := codec{maxBodyBytes: s.maxBodyBytes, log: s.log}
	s.healthHandler = NewHealthHandler(deps)
	s.metricsHandler = NewMetricsHandler()
	s.keypairHandler = NewKeypairHandler(deps, c)
	s.tokenHandler = NewTokenHandler(deps, c)
	s.messageHandler = NewMessageHandler(deps, c)
	s.transferHandler = NewTransferHandler(deps, c)
	s.infoHandler = NewInfoHandler(deps.Version(), s.endpoints())
	return s
}

// route describes one registered path.
type route struct {
	method      string
	path        string
	endpoint    string
	description string
	handler     http.HandlerFunc
}

func (s *Server) routes() []route {
	rs := []route{
		{http.MethodGet, "/", "root", "API information", s.handleInfo},
		{http.MethodGet, "/health", "health", "Health check", s.healthHandler.HandleHealth},
		{http.MethodPost, "/keypair", "keypair", "Generate a new keypair", s.keypairHandler.HandleGenerate},
		{http.MethodPost, "/token/create", "token_create", "Create an InitializeMint instruction", s.tokenHandler.HandleCreate},
		{http.MethodPost, "/token/mint", "token_mint", "Create a MintTo instruction", s.tokenHandler.HandleMint},
		{http.MethodPost, "/message/sign", "message_sign", "Sign a message", s.messageHandler.HandleSign},
		{http.MethodPost, "/message/verify", "message_verify", "Verify a signed message", s.messageHandler.HandleVerify},
		{http.MethodPost, "/send/sol", "send_sol", "Create a SOL transfer instruction", s.transferHandler.HandleSOL},
		{http.MethodPost, "/send/token", "send_token", "Create a token transfer instruction", s.transferHandler.HandleToken},
	}
	if s.metricsEnabled {
		rs = append(rs, route{http.MethodGet, "/metrics", "metrics", "Prometheus metrics", s.metricsHandler.ServeHTTP})
	}
	return rs
}

func (s *Server) endpoints() []types.EndpointInfo {
	rs := s.routes()
	eps := make([]types.EndpointInfo, 0, len(rs)+len(s.extraEndpoints))
	for _, rt := range rs {
		eps = append(eps, types.EndpointInfo{Method: rt.method, Path: rt.path, Description: rt.description})
	}
	return append(eps, s.extraEndpoints...)
}

// notFoundEndpoint labels requests for paths no route owns.
const notFoundEndpoint = "not_found"

// Register attaches all HTTP routes to mux. "/" matches only the root path;
// every path no other pattern owns answers 404.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	for _, rt := range s.routes() {
		pattern := rt.path
		if pattern == "/" {
			pattern = "/{$}"
		}
		mux.HandleFunc(pattern, MetricsMiddleware(allowMethod(rt.method, rt.handler, s.log), rt.endpoint))
	}
	mux.HandleFunc("/", MetricsMiddleware(s.handleNotFound, notFoundEndpoint))
}

// handleInfo defers the lookup because the info handler is built from routes.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.infoHandler.HandleInfo(w, r)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, s.log, http.StatusNotFound,
		WrapKind("api.route", ErrNotFound, fmt.Errorf("Route %s %s not found", r.Method, r.URL.Path)))
}

// allowMethod rejects requests whose method differs from method with 405.
// HEAD is served wherever GET is.
func allowMethod(method string, next http.HandlerFunc, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
			next(w, r)
			return
		}
		w.Header().Set("Allow", method)
		writeError(w, r, l, http.StatusMethodNotAllowed,
			WrapKind("api.route", ErrMethodNotAllowed, fmt.Errorf("Method %s not allowed on %s", r.Method, r.URL.Path)))
	}
}

// codec decodes request bodies and writes envelopes.
type codec struct {
	maxBodyBytes int64
	log          logger.Logger
}

// decode reads a single JSON object into dst. Unknown fields are ignored;
// anything after the object other than whitespace is not.
func (c codec) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, c.maxBodyBytes)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	err := dec.Decode(dst)
	if err == nil {
		if err = dec.Decode(&struct{}{}); errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("Request body exceeds %d bytes", maxErr.Limit)
		}
		return errors.New("Invalid JSON: unexpected data after object")
	}

	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("Request body cannot be empty")
	case errors.As(err, &maxErr):
		return fmt.Errorf("Request body exceeds %d bytes", maxErr.Limit)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Errorf("Invalid value for field %s: expected %s", typeErr.Field, typeErr.Type)
		}
		return errors.New("Invalid request body: expected a JSON object")
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("Invalid JSON: %w", err)
	default:
		return fmt.Errorf("Invalid request body: %w", err)
	}
}

// fail maps err to its kind and writes a 400 envelope.
func (c codec) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	writeError(w, r, c.log, http.StatusBadRequest, WrapKind(op, classify(err), err))
}

// malformed writes a 400 envelope for a body that could not be decoded.
func (c codec) malformed(w http.ResponseWriter, r *http.Request, op string, err error) {
	writeError(w, r, c.log, http.StatusBadRequest, WrapKind(op, ErrMalformedRequest, err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK[T any](w http.ResponseWriter, data T, message string) {
	writeJSON(w, http.StatusOK, types.OK(data, message))
}

func writeError(w http.ResponseWriter, r *http.Request, l logger.Logger, status int, err error) {
	kind := kindLabel(err)
	if rw, ok := w.(*responseWriter); ok {
		rw.errKind = kind
	}
	l.Debug(r.Context(), "request failed",
		logger.String("path", r.URL.Path),
		logger.Int("status", status),
		logger.String("kind", kind),
		logger.Error(err),
	)
	writeJSON(w, status, types.Fail(publicMessage(err)))
}
