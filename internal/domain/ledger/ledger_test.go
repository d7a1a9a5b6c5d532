package ledger_test

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/okian/solhttp/internal/domain/ledger"
	. "github.com/smartystreets/goconvey/convey"
)

func mustKey() solana.PrivateKey {
	k, err := solana.NewRandomPrivateKey()
	if err != nil {
		panic(err)
	}
	return k
}

func TestGenerateKeypair(t *testing.T) {
	Convey("Given two generated keypairs", t, func() {
		a, errA := ledger.GenerateKeypair()
		b, errB := ledger.GenerateKeypair()

		Convey("Then both succeed and differ", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(a.PublicKey, ShouldNotEqual, b.PublicKey)
			So(a.SecretKey, ShouldNotEqual, b.SecretKey)
		})

		Convey("Then the secret key decodes to the advertised public key", func() {
			priv, err := solana.PrivateKeyFromBase58(a.SecretKey)
			So(err, ShouldBeNil)
			So(len(priv), ShouldEqual, 64)
			So(priv.PublicKey().String(), ShouldEqual, a.PublicKey)
		})
	})
}

func TestSignAndVerify(t *testing.T) {
	Convey("Given a signed message", t, func() {
		priv := mustKey()
		signed, err := ledger.SignMessage(priv, "Hello, Solana World!")
		So(err, ShouldBeNil)
		So(signed.PublicKey, ShouldEqual, priv.PublicKey().String())
		So(signed.Message, ShouldEqual, "Hello, Solana World!")

		raw, err := base64.StdEncoding.DecodeString(signed.Signature)
		So(err, ShouldBeNil)
		So(len(raw), ShouldEqual, 64)
		var sig solana.Signature
		copy(sig[:], raw)

		Convey("When verifying with the signer's key", func() {
			v := ledger.VerifyMessage(priv.PublicKey(), sig, "Hello, Solana World!")

			Convey("Then it is valid", func() {
				So(v.IsValid, ShouldBeTrue)
				So(v.PublicKey, ShouldEqual, priv.PublicKey().String())
			})
		})

		Convey("When the message is tampered with", func() {
			v := ledger.VerifyMessage(priv.PublicKey(), sig, "Hello, Solana World?")

			Convey("Then it is invalid", func() {
				So(v.IsValid, ShouldBeFalse)
			})
		})

		Convey("When verifying with another key", func() {
			v := ledger.VerifyMessage(mustKey().PublicKey(), sig, "Hello, Solana World!")

			Convey("Then it is invalid", func() {
				So(v.IsValid, ShouldBeFalse)
			})
		})
	})
}

func TestInitializeMint(t *testing.T) {
	Convey("Given a mint and an authority", t, func() {
		authority := mustKey().PublicKey()
		mint := mustKey().PublicKey()

		inst, err := ledger.InitializeMint(authority, mint, 6)

		Convey("Then the instruction targets the SPL Token program", func() {
			So(err, ShouldBeNil)
			So(inst.ProgramID, ShouldEqual, solana.TokenProgramID.String())
		})

		Convey("Then the mint account is first and writable", func() {
			So(len(inst.Accounts), ShouldBeGreaterThanOrEqualTo, 1)
			So(inst.Accounts[0].PublicKey, ShouldEqual, mint.String())
			So(inst.Accounts[0].IsWritable, ShouldBeTrue)
		})

		Convey("Then the data encodes the opcode and decimals", func() {
			data, err := base64.StdEncoding.DecodeString(inst.InstructionData)
			So(err, ShouldBeNil)
			So(data[0], ShouldEqual, byte(0)) // InitializeMint
			So(data[1], ShouldEqual, byte(6))
		})
	})
}

func TestMintTo(t *testing.T) {
	Convey("Given a mint, destination and authority", t, func() {
		mint := mustKey().PublicKey()
		dest := mustKey().PublicKey()
		authority := mustKey().PublicKey()

		inst, err := ledger.MintTo(mint, dest, authority, 1_000_000)

		Convey("Then accounts are mint, destination, authority", func() {
			So(err, ShouldBeNil)
			So(inst.ProgramID, ShouldEqual, solana.TokenProgramID.String())
			So(len(inst.Accounts), ShouldEqual, 3)
			So(inst.Accounts[0].PublicKey, ShouldEqual, mint.String())
			So(inst.Accounts[1].PublicKey, ShouldEqual, dest.String())
			So(inst.Accounts[2].PublicKey, ShouldEqual, authority.String())
			So(inst.Accounts[2].IsSigner, ShouldBeTrue)
		})

		Convey("Then the amount is little-endian after the opcode", func() {
			data, err := base64.StdEncoding.DecodeString(inst.InstructionData)
			So(err, ShouldBeNil)
			So(data[0], ShouldEqual, byte(7)) // MintTo
			So(binary.LittleEndian.Uint64(data[1:9]), ShouldEqual, uint64(1_000_000))
		})
	})
}

func TestTransferSOL(t *testing.T) {
	Convey("Given two wallets", t, func() {
		from := mustKey().PublicKey()
		to := mustKey().PublicKey()

		inst, err := ledger.TransferSOL(from, to, 5000)

		Convey("Then the System program transfer is built", func() {
			So(err, ShouldBeNil)
			So(inst.ProgramID, ShouldEqual, solana.SystemProgramID.String())
			So(len(inst.Accounts), ShouldEqual, 2)
			So(inst.Accounts[0].PublicKey, ShouldEqual, from.String())
			So(inst.Accounts[0].IsSigner, ShouldBeTrue)
			So(inst.Accounts[0].IsWritable, ShouldBeTrue)
			So(inst.Accounts[1].PublicKey, ShouldEqual, to.String())
			So(inst.Accounts[1].IsWritable, ShouldBeTrue)
		})

		Convey("Then the data is opcode 2 followed by lamports", func() {
			data, err := base64.StdEncoding.DecodeString(inst.InstructionData)
			So(err, ShouldBeNil)
			So(binary.LittleEndian.Uint32(data[0:4]), ShouldEqual, uint32(2))
			So(binary.LittleEndian.Uint64(data[4:12]), ShouldEqual, uint64(5000))
		})
	})
}

func TestTransferToken(t *testing.T) {
	Convey("Given an owner, a destination wallet and a mint", t, func() {
		owner := mustKey().PublicKey()
		dest := mustKey().PublicKey()
		mint := mustKey().PublicKey()

		inst, err := ledger.TransferToken(owner, dest, mint, 42)

		Convey("Then it moves tokens between the associated token accounts", func() {
			So(err, ShouldBeNil)
			srcATA, _, _ := solana.FindAssociatedTokenAddress(owner, mint)
			dstATA, _, _ := solana.FindAssociatedTokenAddress(dest, mint)

			So(inst.ProgramID, ShouldEqual, solana.TokenProgramID.String())
			So(len(inst.Accounts), ShouldEqual, 3)
			So(inst.Accounts[0].PublicKey, ShouldEqual, srcATA.String())
			So(inst.Accounts[1].PublicKey, ShouldEqual, dstATA.String())
			So(inst.Accounts[2].PublicKey, ShouldEqual, owner.String())
			So(inst.Accounts[2].IsSigner, ShouldBeTrue)
		})
	})
}
