package token

import (
	"github.com/iov-one/dealchain/errors"
)

// Errors of this package use codes 1020 ~ 1049.
var (
	ErrInvalidMint        = errors.Register(1020, "invalid mint account")
	ErrInvalidAccount     = errors.Register(1021, "invalid token account")
	ErrDecimalsMismatch   = errors.Register(1022, "decimals mismatch")
	ErrMintMismatch       = errors.Register(1023, "mint mismatch")
	ErrOwnerMismatch      = errors.Register(1024, "owner mismatch")
	ErrNonZeroBalance     = errors.Register(1025, "non zero token balance")
	ErrAlreadyInitialized = errors.Register(1026, "already initialized")
	ErrAccountFrozen      = errors.Register(1027, "account frozen")
)
