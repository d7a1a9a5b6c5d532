// Package model contains domain models passed between layers.
package model

// KeyPair is a freshly generated Ed25519 keypair, both halves base58.
// SecretKey encodes the 64-byte seed||public key form.
type KeyPair struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// AccountMeta describes one account referenced by an instruction.
type AccountMeta struct {
	PublicKey  string `json:"publicKey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// Instruction is an unsigned, unsubmitted instruction. Accounts keep the
// order produced by the program's builder.
type Instruction struct {
	ProgramID       string        `json:"programId"`
	Accounts        []AccountMeta `json:"accounts"`
	InstructionData string        `json:"instructionData"` // base64
}

// SignedMessage is the result of signing a UTF-8 message.
type SignedMessage struct {
	Signature string `json:"signature"` // base64
	PublicKey string `json:"publicKey"` // base58
	Message   string `json:"message"`
}

// Verification is the result of checking a signature.
type Verification struct {
	IsValid   bool   `json:"isValid"`
	Message   string `json:"message"`
	PublicKey string `json:"publicKey"`
}
