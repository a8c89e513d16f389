package deal

import (
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/x"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
)

const (
	initAccounts     = 9
	exchangeAccounts = 12
)

// InitContext holds the accounts of an Init instruction, resolved and
// checked.
type InitContext struct {
	Initializer dealchain.Address
	Storage     dealchain.Address
	// Bump completes the seeds deriving Storage.
	Bump        uint8
	Vault       dealchain.Address
	Source      dealchain.Address
	SourceAcct  *token.Account
	MintA       dealchain.Address
	MintAState  *token.Mint
	MintB       dealchain.Address
	MintBState  *token.Mint
}

// ExchangeContext holds the accounts of an Exchange instruction, resolved
// and checked against the deal record.
type ExchangeContext struct {
	Taker               dealchain.Address
	Initializer         dealchain.Address
	Storage             dealchain.Address
	Record              *Record
	Vault               dealchain.Address
	VaultAcct           *token.Account
	TakerReceiver       dealchain.Address
	InitializerReceiver dealchain.Address
	Source              dealchain.Address
	SourceAcct          *token.Account
	MintA               dealchain.Address
	MintAState          *token.Mint
	MintB               dealchain.Address
	MintBState          *token.Mint
}

// Resolver turns account handles into typed views. It never writes.
type Resolver struct {
	auth   x.Authenticator
	sys    system.Controller
	tokens token.Controller
}

// NewResolver returns a resolver reading accounts through given
// controllers.
func NewResolver(auth x.Authenticator, sys system.Controller, tokens token.Controller) Resolver {
	return Resolver{auth: auth, sys: sys, tokens: tokens}
}

// ResolveInit validates the accounts of Init:
// initializer, deal storage, vault, source, mint A, mint B and the token,
// associated token and system programs. The deal storage must be the
// address derived from seed and the initializer.
func (r Resolver) ResolveInit(ctx dealchain.Context, db dealchain.ReadOnlyKVStore, conf Configuration, metas []*dealchain.AccountMeta, seed uint64) (*InitContext, error) {
	addrs, err := addresses(metas, initAccounts)
	if err != nil {
		return nil, err
	}
	if err := r.signer(ctx, metas[0], addrs[0]); err != nil {
		return nil, errors.Wrap(err, "initializer")
	}
	if err := programs(conf, addrs[6:]); err != nil {
		return nil, err
	}
	ic := &InitContext{
		Initializer: addrs[0],
		Storage:     addrs[1],
		Vault:       addrs[2],
		Source:      addrs[3],
		MintA:       addrs[4],
		MintB:       addrs[5],
	}
	dealAddr, bump, err := DealAddress(conf.ProgramID, seed, ic.Initializer)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSigner, err.Error())
	}
	if dealAddr != ic.Storage {
		return nil, errors.Wrapf(ErrInvalidSigner, "deal storage must be %s", dealAddr)
	}
	ic.Bump = bump
	if err := vaultKey(ic.Vault, ic.Storage, ic.MintA); err != nil {
		return nil, err
	}
	if ic.SourceAcct, err = r.tokenAccount(db, ic.Source); err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if ic.MintAState, err = r.mint(db, ic.MintA); err != nil {
		return nil, errors.Wrap(err, "mint a")
	}
	if ic.MintBState, err = r.mint(db, ic.MintB); err != nil {
		return nil, errors.Wrap(err, "mint b")
	}
	return ic, nil
}

// ResolveExchange validates the accounts of Exchange:
// taker, initializer, deal storage, vault, taker receiver of asset A,
// initializer receiver of asset B, taker source of asset B, mint A, mint B
// and the token, associated token and system programs. The claimed amount
// must match the deal.
func (r Resolver) ResolveExchange(ctx dealchain.Context, db dealchain.ReadOnlyKVStore, conf Configuration, metas []*dealchain.AccountMeta, claimedAmount uint64) (*ExchangeContext, error) {
	addrs, err := addresses(metas, exchangeAccounts)
	if err != nil {
		return nil, err
	}
	if err := r.signer(ctx, metas[0], addrs[0]); err != nil {
		return nil, errors.Wrap(err, "taker")
	}
	if err := programs(conf, addrs[9:]); err != nil {
		return nil, err
	}
	ec := &ExchangeContext{
		Taker:               addrs[0],
		Initializer:         addrs[1],
		Storage:             addrs[2],
		Vault:               addrs[3],
		TakerReceiver:       addrs[4],
		InitializerReceiver: addrs[5],
		Source:              addrs[6],
		MintA:               addrs[7],
		MintB:               addrs[8],
	}
	if ec.Record, err = r.record(db, conf, ec.Storage); err != nil {
		return nil, err
	}
	rec := ec.Record
	if !rec.IsOpen {
		return nil, errors.Wrap(ErrInvalidEscrowState, "deal is closed")
	}
	if err := vaultKey(ec.Vault, ec.Storage, rec.AssetA); err != nil {
		return nil, err
	}
	if claimedAmount != rec.ExpectedAmount {
		return nil, errors.Wrapf(ErrExpectedAmountMismatch, "deal expects %d, got %d", rec.ExpectedAmount, claimedAmount)
	}
	if ec.MintA != rec.AssetA {
		return nil, errors.Wrapf(ErrMintAMismatch, "deal offers %s", rec.AssetA)
	}
	if ec.MintB != rec.AssetB {
		return nil, errors.Wrapf(ErrMintBMismatch, "deal wants %s", rec.AssetB)
	}
	if ec.Initializer != rec.Initializer {
		return nil, errors.Wrapf(ErrInitializerMismatch, "deal belongs to %s", rec.Initializer)
	}
	if err := receiverKey(ec.TakerReceiver, ec.Taker, rec.AssetA); err != nil {
		return nil, errors.Wrap(err, "taker")
	}
	if err := receiverKey(ec.InitializerReceiver, rec.Initializer, rec.AssetB); err != nil {
		return nil, errors.Wrap(err, "initializer")
	}

	if ec.VaultAcct, err = r.tokenAccount(db, ec.Vault); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	if ec.VaultAcct.Owner != ec.Storage || ec.VaultAcct.Mint != rec.AssetA {
		return nil, errors.Wrapf(ErrInvalidEscrowVault, "vault %s", ec.Vault)
	}
	if ec.SourceAcct, err = r.tokenAccount(db, ec.Source); err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if ec.MintAState, err = r.mint(db, ec.MintA); err != nil {
		return nil, errors.Wrap(err, "mint a")
	}
	if ec.MintBState, err = r.mint(db, ec.MintB); err != nil {
		return nil, errors.Wrap(err, "mint b")
	}
	return ec, nil
}

// signer requires the handle to be flagged as signer and the address to be
// authorized in the context.
func (r Resolver) signer(ctx dealchain.Context, m *dealchain.AccountMeta, addr dealchain.Address) error {
	if !m.IsSigner || !r.auth.HasAddress(ctx, addr) {
		return errors.Wrapf(ErrInvalidSigner, "%s", addr)
	}
	return nil
}

func (r Resolver) tokenAccount(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*token.Account, error) {
	acct, err := r.tokens.Account(db, addr)
	if err != nil {
		return nil, errors.Wrap(ErrDeserializeTokenAccountError, err.Error())
	}
	return acct, nil
}

func (r Resolver) mint(db dealchain.ReadOnlyKVStore, addr dealchain.Address) (*token.Mint, error) {
	m, err := r.tokens.Mint(db, addr)
	if err != nil {
		return nil, errors.Wrap(ErrDeserializeMintAccountError, err.Error())
	}
	return m, nil
}

// record loads the deal record kept by a deal storage account.
func (r Resolver) record(db dealchain.ReadOnlyKVStore, conf Configuration, addr dealchain.Address) (*Record, error) {
	acct, err := r.sys.Account(db, addr)
	if err != nil {
		return nil, errors.Wrap(ErrDeserializeEscrowAccountError, err.Error())
	}
	if acct.Owner != conf.ProgramID {
		return nil, errors.Wrapf(ErrDeserializeEscrowAccountError, "%s is owned by %s", addr, acct.Owner)
	}
	rec, err := UnmarshalRecord(acct.Data)
	if err != nil {
		return nil, errors.Wrap(ErrDeserializeEscrowAccountError, err.Error())
	}
	return rec, nil
}

// addresses requires exactly n handles.
func addresses(metas []*dealchain.AccountMeta, n int) ([]dealchain.Address, error) {
	if len(metas) != n {
		return nil, errors.Wrapf(ErrNotEnoughAccountKeys, "want %d accounts, got %d", n, len(metas))
	}
	res := make([]dealchain.Address, n)
	for i, m := range metas {
		addr, err := m.Address()
		if err != nil {
			return nil, errors.Wrapf(err, "account %d", i)
		}
		res[i] = addr
	}
	return res, nil
}

// programs checks the token, associated token and system program handles.
func programs(conf Configuration, addrs []dealchain.Address) error {
	want := []dealchain.Address{conf.TokenProgram, conf.AssociatedProgram, conf.SystemProgram}
	for i, w := range want {
		if addrs[i] != w {
			return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s, want %s", addrs[i], w)
		}
	}
	return nil
}

func vaultKey(vault, storage, mint dealchain.Address) error {
	want, err := token.AssociatedAddress(storage, mint)
	if err != nil {
		return err
	}
	if vault != want {
		return errors.Wrapf(ErrVaultKeyMismatch, "vault must be %s", want)
	}
	return nil
}

func receiverKey(receiver, owner, mint dealchain.Address) error {
	want, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return err
	}
	if receiver != want {
		return errors.Wrapf(ErrReceiverKeyMismatch, "receiver must be %s", want)
	}
	return nil
}
