// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"time"

	"github.com/okian/solhttp/internal/domain/ledger"
	"github.com/okian/solhttp/internal/domain/model"
	"github.com/okian/solhttp/internal/domain/types"
	"github.com/okian/solhttp/internal/domain/validate"
	"github.com/okian/solhttp/pkg/logger"
	"github.com/okian/solhttp/pkg/metrics"
)

// Version is reported by the health and info endpoints.
const Version = "1.0.0"

// Service validates requests and delegates them to the ledger. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	logger    logger.Logger
	version   string
	startedAt time.Time
	now       func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVersion overrides the reported version.
func WithVersion(v string) Option {
	return func(s *Service) {
		if v != "" {
			s.version = v
		}
	}
}

// WithClock replaces time.Now, used for uptime.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{
		version: Version,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.startedAt = s.now()
	return s
}

// Version returns the reported service version.
func (s *Service) Version() string { return s.version }

// Health reports liveness and uptime.
func (s *Service) Health(_ context.Context) types.Health {
	return types.Health{
		Status:  "healthy",
		Version: s.version,
		Uptime:  s.now().Sub(s.startedAt).Truncate(time.Second).String(),
	}
}

// GenerateKeypair creates a new keypair.
func (s *Service) GenerateKeypair(ctx context.Context) (model.KeyPair, error) {
	kp, err := ledger.GenerateKeypair()
	if err != nil {
		return fail(ctx, s.logger, "generate_keypair", model.KeyPair{}, err)
	}
	metrics.RecordKeypairGenerated()
	s.logger.Debug(ctx, "keypair generated", logger.String("publicKey", kp.PublicKey))
	return kp, nil
}

// CreateToken builds an InitializeMint instruction.
func (s *Service) CreateToken(ctx context.Context, req types.CreateTokenRequest) (model.Instruction, error) {
	const op = "create_token"
	authority, err := validate.PublicKey(req.MintAuthority, "mintAuthority")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	mint, err := validate.PublicKey(req.Mint, "mint")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	decimals, err := validate.Required(req.Decimals, "decimals")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}

	inst, err := ledger.InitializeMint(authority, mint, decimals)
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	return s.built(ctx, ledger.KindInitializeMint, inst), nil
}

// MintToken builds a MintTo instruction.
func (s *Service) MintToken(ctx context.Context, req types.MintTokenRequest) (model.Instruction, error) {
	const op = "mint_token"
	mint, err := validate.PublicKey(req.Mint, "mint")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	dest, err := validate.PublicKey(req.Destination, "destination")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	authority, err := validate.PublicKey(req.Authority, "authority")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	if err := validate.Amount(req.Amount, "amount"); err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}

	inst, err := ledger.MintTo(mint, dest, authority, req.Amount)
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	return s.built(ctx, ledger.KindMintTo, inst), nil
}

// SignMessage signs req.Message with req.Secret.
func (s *Service) SignMessage(ctx context.Context, req types.SignMessageRequest) (model.SignedMessage, error) {
	const op = "sign_message"
	if err := validate.NotEmpty(req.Message, "message"); err != nil {
		return fail(ctx, s.logger, op, model.SignedMessage{}, err)
	}
	priv, err := validate.SecretKey(req.Secret, "secret")
	if err != nil {
		return fail(ctx, s.logger, op, model.SignedMessage{}, err)
	}

	signed, err := ledger.SignMessage(priv, req.Message)
	if err != nil {
		return fail(ctx, s.logger, op, model.SignedMessage{}, err)
	}
	metrics.RecordMessageSigned()
	s.logger.Debug(ctx, "message signed", logger.String("publicKey", signed.PublicKey))
	return signed, nil
}

// VerifyMessage checks req.Signature over req.Message. An invalid
// signature is a successful verification with IsValid false.
func (s *Service) VerifyMessage(ctx context.Context, req types.VerifyMessageRequest) (model.Verification, error) {
	const op = "verify_message"
	if err := validate.NotEmpty(req.Message, "message"); err != nil {
		return fail(ctx, s.logger, op, model.Verification{}, err)
	}
	pub, err := validate.SignerKey(req.Pubkey, "pubkey")
	if err != nil {
		return fail(ctx, s.logger, op, model.Verification{}, err)
	}
	sig, err := validate.Signature(req.Signature, "signature")
	if err != nil {
		return fail(ctx, s.logger, op, model.Verification{}, err)
	}

	v := ledger.VerifyMessage(pub, sig, req.Message)
	metrics.RecordVerification(v.IsValid)
	s.logger.Debug(ctx, "message verified",
		logger.String("publicKey", v.PublicKey),
		logger.Bool("valid", v.IsValid),
	)
	return v, nil
}

// SendSOL builds a System program transfer.
func (s *Service) SendSOL(ctx context.Context, req types.SendSOLRequest) (model.Instruction, error) {
	const op = "send_sol"
	from, err := validate.PublicKey(req.From, "from")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	to, err := validate.PublicKey(req.To, "to")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	if err := validate.Amount(req.Lamports, "lamports"); err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}

	inst, err := ledger.TransferSOL(from, to, req.Lamports)
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	return s.built(ctx, ledger.KindTransferSOL, inst), nil
}

// SendToken builds an SPL Token transfer between associated token accounts.
func (s *Service) SendToken(ctx context.Context, req types.SendTokenRequest) (model.Instruction, error) {
	const op = "send_token"
	dest, err := validate.PublicKey(req.Destination, "destination")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	mint, err := validate.PublicKey(req.Mint, "mint")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	owner, err := validate.PublicKey(req.Owner, "owner")
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	if err := validate.Amount(req.Amount, "amount"); err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}

	inst, err := ledger.TransferToken(owner, dest, mint, req.Amount)
	if err != nil {
		return fail(ctx, s.logger, op, model.Instruction{}, err)
	}
	return s.built(ctx, ledger.KindTransferToken, inst), nil
}

func (s *Service) built(ctx context.Context, kind string, inst model.Instruction) model.Instruction {
	metrics.RecordInstructionBuilt(kind)
	s.logger.Debug(ctx, "instruction built",
		logger.String("kind", kind),
		logger.String("programId", inst.ProgramID),
		logger.Int("accounts", len(inst.Accounts)),
	)
	return inst
}

// fail logs a rejected request and returns zero alongside err.
func fail[T any](ctx context.Context, l logger.Logger, op string, zero T, err error) (T, error) {
	l.Debug(ctx, "request rejected", logger.String("op", op), logger.Error(err))
	return zero, err
}
