package deal

import (
	"github.com/iov-one/dealchain/errors"
)

var (
	ErrExpectedAmountMismatch        = errors.Register(1100, "ExpectedAmountMismatch")
	ErrInvalidInstructionType        = errors.Register(1101, "InvalidInstructionType")
	ErrInvalidInstructionData        = errors.Register(1102, "InvalidInstructionData")
	ErrInvalidEscrowState            = errors.Register(1103, "InvalidEscrowState")
	ErrInvalidEscrowVault            = errors.Register(1104, "InvalidEscrowVault")
	ErrInvalidSigner                 = errors.Register(1105, "InvalidSigner")
	ErrNotEnoughAccountKeys          = errors.Register(1106, "NotEnoughAccountKeys")
	ErrTooMuchAccountKeys            = errors.Register(1107, "TooMuchAccountKeys")
	ErrDeserializeTokenAccountError  = errors.Register(1108, "DeserializeTokenAccountError")
	ErrDeserializeMintAccountError   = errors.Register(1109, "DeserializeMintAccountError")
	ErrDeserializeEscrowAccountError = errors.Register(1110, "DeserializeEscrowAccountError")
	ErrMintAMismatch                 = errors.Register(1111, "MintAMismatch")
	ErrMintBMismatch                 = errors.Register(1112, "MintBMismatch")
	ErrVaultKeyMismatch              = errors.Register(1113, "VaultKeyMismatch")
	ErrInitializerMismatch           = errors.Register(1114, "InitializerMismatch")
	ErrReceiverKeyMismatch           = errors.Register(1115, "ReceiverKeyMismatch")
)
