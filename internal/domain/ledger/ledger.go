// Package ledger adapts the Solana SDK to the service's value objects.
// Every function is pure: nothing is sent to a cluster.
package ledger

import (
	"encoding/base64"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/okian/solhttp/internal/domain/model"
)

// Instruction kinds, used as metric labels.
const (
	KindInitializeMint = "initialize_mint"
	KindMintTo         = "mint_to"
	KindTransferSOL    = "transfer_sol"
	KindTransferToken  = "transfer_token"
)

// GenerateKeypair creates a fresh Ed25519 keypair.
func GenerateKeypair() (model.KeyPair, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return model.KeyPair{}, reject("generate keypair", err)
	}
	return model.KeyPair{
		PublicKey: priv.PublicKey().String(),
		SecretKey: priv.String(),
	}, nil
}

// SignMessage signs the UTF-8 bytes of message.
func SignMessage(priv solana.PrivateKey, message string) (model.SignedMessage, error) {
	sig, err := priv.Sign([]byte(message))
	if err != nil {
		return model.SignedMessage{}, reject("sign message", err)
	}
	return model.SignedMessage{
		Signature: base64.StdEncoding.EncodeToString(sig[:]),
		PublicKey: priv.PublicKey().String(),
		Message:   message,
	}, nil
}

// VerifyMessage checks sig over the UTF-8 bytes of message. A mismatch is
// a normal result, not an error.
func VerifyMessage(pub solana.PublicKey, sig solana.Signature, message string) model.Verification {
	return model.Verification{
		IsValid:   sig.Verify(pub, []byte(message)),
		Message:   message,
		PublicKey: pub.String(),
	}
}

// InitializeMint builds an SPL Token InitializeMint instruction. The mint
// authority doubles as the freeze authority.
func InitializeMint(mintAuthority, mint solana.PublicKey, decimals uint8) (model.Instruction, error) {
	inst, err := token.NewInitializeMintInstruction(
		decimals,
		mintAuthority,
		mintAuthority,
		mint,
		solana.SysVarRentPubkey,
	).ValidateAndBuild()
	if err != nil {
		return model.Instruction{}, reject("Failed to create initialize mint instruction", err)
	}
	return fromSDK(inst)
}

// MintTo builds an SPL Token MintTo instruction for a single authority.
func MintTo(mint, destination, authority solana.PublicKey, amount uint64) (model.Instruction, error) {
	inst, err := token.NewMintToInstruction(
		amount,
		mint,
		destination,
		authority,
		nil,
	).ValidateAndBuild()
	if err != nil {
		return model.Instruction{}, reject("Failed to create mint instruction", err)
	}
	return fromSDK(inst)
}

// TransferSOL builds a System program transfer.
func TransferSOL(from, to solana.PublicKey, lamports uint64) (model.Instruction, error) {
	inst, err := system.NewTransferInstruction(lamports, from, to).ValidateAndBuild()
	if err != nil {
		return model.Instruction{}, reject("Failed to create transfer instruction", err)
	}
	return fromSDK(inst)
}

// TransferToken builds an SPL Token transfer between the associated token
// accounts of owner and destination for mint.
func TransferToken(owner, destination, mint solana.PublicKey, amount uint64) (model.Instruction, error) {
	source, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return model.Instruction{}, reject("derive source token account", err)
	}
	dest, _, err := solana.FindAssociatedTokenAddress(destination, mint)
	if err != nil {
		return model.Instruction{}, reject("derive destination token account", err)
	}

	inst, err := token.NewTransferInstruction(
		amount,
		source,
		dest,
		owner,
		nil,
	).ValidateAndBuild()
	if err != nil {
		return model.Instruction{}, reject("Failed to create transfer instruction", err)
	}
	return fromSDK(inst)
}

func fromSDK(inst solana.Instruction) (model.Instruction, error) {
	data, err := inst.Data()
	if err != nil {
		return model.Instruction{}, reject("encode instruction data", err)
	}

	metas := inst.Accounts()
	accounts := make([]model.AccountMeta, 0, len(metas))
	for _, m := range metas {
		accounts = append(accounts, model.AccountMeta{
			PublicKey:  m.PublicKey.String(),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		})
	}

	return model.Instruction{
		ProgramID:       inst.ProgramID().String(),
		Accounts:        accounts,
		InstructionData: base64.StdEncoding.EncodeToString(data),
	}, nil
}
