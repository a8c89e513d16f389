package system

import (
	"github.com/iov-one/dealchain/errors"
)

// Errors of this package use codes 1000 ~ 1019.
var (
	ErrAccountOwner   = errors.Register(1000, "invalid account owner")
	ErrAccountData    = errors.Register(1001, "account carries data")
	ErrNotRentExempt  = errors.Register(1002, "balance below rent exemption")
	ErrInvalidAccount = errors.Register(1003, "invalid account")
)
