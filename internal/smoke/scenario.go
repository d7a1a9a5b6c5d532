package smoke

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/okian/solhttp/internal/domain/model"
	"github.com/okian/solhttp/internal/domain/types"
	"github.com/okian/solhttp/pkg/logger"
)

// round runs one pass of the scenario and collects its check results.
type round struct {
	id       int
	client   *Client
	verbose  bool
	passed   int
	failures []Failure
}

func (r *round) check(ctx context.Context, name string, ok bool, format string, args ...any) bool {
	if ok {
		r.passed++
		if r.verbose {
			logger.Get().Debug(ctx, "check passed", logger.Int("round", r.id), logger.String("check", name))
		}
		return true
	}
	f := Failure{Round: r.id, Check: name, Detail: fmt.Sprintf(format, args...)}
	r.failures = append(r.failures, f)
	logger.Get().Warn(ctx, "check failed",
		logger.Int("round", r.id),
		logger.String("check", f.Check),
		logger.String("detail", f.Detail))
	return false
}

// succeeded checks a 200 success envelope with data.
func succeeded[T any](ctx context.Context, r *round, name string, res result[T], err error) bool {
	if !r.check(ctx, name+" request", err == nil, "%v", err) {
		return false
	}
	return r.check(ctx, name+" status", res.Status == http.StatusOK && res.Envelope.Success && res.Envelope.Data != nil,
		"status=%d success=%t error=%q", res.Status, res.Envelope.Success, res.Envelope.Error)
}

// rejected checks a 400 error envelope whose text contains want.
func rejected[T any](ctx context.Context, r *round, name string, res result[T], err error, want string) {
	if !r.check(ctx, name+" request", err == nil, "%v", err) {
		return
	}
	r.check(ctx, name+" rejected",
		res.Status == http.StatusBadRequest && !res.Envelope.Success && res.Envelope.Data == nil &&
			strings.Contains(res.Envelope.Error, want),
		"status=%d success=%t error=%q want substring %q", res.Status, res.Envelope.Success, res.Envelope.Error, want)
}

// runRound exercises every endpoint once.
func runRound(ctx context.Context, c *Client, id int, verbose bool) *round {
	r := &round{id: id, client: c, verbose: verbose}

	// Keypairs
	a, err := call[model.KeyPair](ctx, c, http.MethodPost, "/keypair", nil)
	if !succeeded(ctx, r, "keypair", a, err) {
		return r
	}
	b, err := call[model.KeyPair](ctx, c, http.MethodPost, "/keypair", nil)
	if !succeeded(ctx, r, "keypair", b, err) {
		return r
	}
	alice, bob := *a.Envelope.Data, *b.Envelope.Data
	r.check(ctx, "keypairs differ", alice.PublicKey != bob.PublicKey && alice.SecretKey != bob.SecretKey,
		"two keypairs share a key: %s", alice.PublicKey)

	// Sign and verify
	message := fmt.Sprintf("smoke %s round %d", c.runID, id)
	signed, err := call[model.SignedMessage](ctx, c, http.MethodPost, "/message/sign",
		types.SignMessageRequest{Message: message, Secret: alice.SecretKey})
	if succeeded(ctx, r, "sign", signed, err) {
		sig := signed.Envelope.Data.Signature
		r.check(ctx, "sign public key", signed.Envelope.Data.PublicKey == alice.PublicKey,
			"got %s want %s", signed.Envelope.Data.PublicKey, alice.PublicKey)

		verifyCase(ctx, r, "verify matching", message, sig, alice.PublicKey, true)
		verifyCase(ctx, r, "verify tampered", message+"!", sig, alice.PublicKey, false)
		verifyCase(ctx, r, "verify wrong key", message, sig, bob.PublicKey, false)
	}

	// Token mint
	decimals := uint8(6)
	created, err := call[model.Instruction](ctx, c, http.MethodPost, "/token/create",
		types.CreateTokenRequest{MintAuthority: alice.PublicKey, Mint: bob.PublicKey, Decimals: &decimals})
	if succeeded(ctx, r, "token create", created, err) {
		r.check(ctx, "token create program", created.Envelope.Data.ProgramID == TokenProgramID,
			"programId=%s", created.Envelope.Data.ProgramID)
	}

	minted, err := call[model.Instruction](ctx, c, http.MethodPost, "/token/mint",
		types.MintTokenRequest{Mint: bob.PublicKey, Destination: alice.PublicKey, Authority: alice.PublicKey, Amount: 1_000_000})
	if succeeded(ctx, r, "token mint", minted, err) {
		r.check(ctx, "token mint accounts", len(minted.Envelope.Data.Accounts) == 3,
			"got %d accounts", len(minted.Envelope.Data.Accounts))
	}

	// SOL transfer
	sent, err := call[model.Instruction](ctx, c, http.MethodPost, "/send/sol",
		types.SendSOLRequest{From: alice.PublicKey, To: bob.PublicKey, Lamports: 1_000})
	if succeeded(ctx, r, "send sol", sent, err) {
		inst := sent.Envelope.Data
		r.check(ctx, "send sol program", inst.ProgramID == SystemProgramID, "programId=%s", inst.ProgramID)
		r.check(ctx, "send sol accounts",
			len(inst.Accounts) == 2 &&
				inst.Accounts[0].PublicKey == alice.PublicKey && inst.Accounts[0].IsSigner && inst.Accounts[0].IsWritable &&
				inst.Accounts[1].PublicKey == bob.PublicKey && inst.Accounts[1].IsWritable,
			"accounts=%+v", inst.Accounts)
	}

	// Token transfer
	tokenSent, err := call[model.Instruction](ctx, c, http.MethodPost, "/send/token",
		types.SendTokenRequest{Destination: bob.PublicKey, Mint: bob.PublicKey, Owner: alice.PublicKey, Amount: 42})
	if succeeded(ctx, r, "send token", tokenSent, err) {
		checkTokenAccounts(ctx, r, tokenSent.Envelope.Data, alice.PublicKey, bob.PublicKey, bob.PublicKey)
	}

	// Rejections
	zero, err := call[model.Instruction](ctx, c, http.MethodPost, "/send/sol",
		types.SendSOLRequest{From: alice.PublicKey, To: bob.PublicKey})
	rejected(ctx, r, "zero lamports", zero, err, "lamports")

	badKey, err := call[model.Instruction](ctx, c, http.MethodPost, "/token/mint",
		types.MintTokenRequest{Mint: "not-a-key", Destination: bob.PublicKey, Authority: alice.PublicKey, Amount: 1})
	rejected(ctx, r, "invalid key", badKey, err, "mint")

	return r
}

func verifyCase(ctx context.Context, r *round, name, message, sig, pubkey string, want bool) {
	res, err := call[model.Verification](ctx, r.client, http.MethodPost, "/message/verify",
		types.VerifyMessageRequest{Message: message, Signature: sig, Pubkey: pubkey})
	if succeeded(ctx, r, name, res, err) {
		r.check(ctx, name+" result", res.Envelope.Data.IsValid == want, "isValid=%t want %t", res.Envelope.Data.IsValid, want)
	}
}

// checkTokenAccounts compares the transfer accounts with locally derived
// associated token accounts.
func checkTokenAccounts(ctx context.Context, r *round, inst *model.Instruction, owner, destination, mint string) {
	ownerKey, err1 := solana.PublicKeyFromBase58(owner)
	destKey, err2 := solana.PublicKeyFromBase58(destination)
	mintKey, err3 := solana.PublicKeyFromBase58(mint)
	if !r.check(ctx, "send token keys", err1 == nil && err2 == nil && err3 == nil, "cannot parse keys") {
		return
	}
	src, _, err1 := solana.FindAssociatedTokenAddress(ownerKey, mintKey)
	dst, _, err2 := solana.FindAssociatedTokenAddress(destKey, mintKey)
	if !r.check(ctx, "send token derive", err1 == nil && err2 == nil, "cannot derive token accounts") {
		return
	}
	r.check(ctx, "send token program", inst.ProgramID == TokenProgramID, "programId=%s", inst.ProgramID)
	r.check(ctx, "send token accounts",
		len(inst.Accounts) == 3 &&
			inst.Accounts[0].PublicKey == src.String() &&
			inst.Accounts[1].PublicKey == dst.String() &&
			inst.Accounts[2].PublicKey == owner && inst.Accounts[2].IsSigner,
		"accounts=%+v", inst.Accounts)
}
