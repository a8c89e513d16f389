package system

import (
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/orm"
)

// ProgramID owns all plain native balance accounts.
var ProgramID = dealchain.ProgramID("system")

// AccountHeaderLength is the size of the fixed part of a serialized account:
// balance(8) owner(32).
const AccountHeaderLength = 8 + dealchain.AddressLength

// MaxDataSize limits the data a single account can hold.
const MaxDataSize = 10 * 1024 * 1024

// Account is the state of a single ledger address.
type Account struct {
	Balance uint64
	Owner   dealchain.Address
	Data    []byte
}

var _ orm.Model = (*Account)(nil)

// NewAccount returns an empty account owned by the system program, this is
// what every address without state holds.
func NewAccount() *Account {
	return &Account{Owner: ProgramID}
}

// Marshal serializes the account as balance(u64 LE) owner data.
func (a *Account) Marshal() ([]byte, error) {
	out := make([]byte, AccountHeaderLength+len(a.Data))
	binary.LittleEndian.PutUint64(out, a.Balance)
	copy(out[8:], a.Owner[:])
	copy(out[AccountHeaderLength:], a.Data)
	return out, nil
}

// Unmarshal loads the account from its binary representation.
func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) < AccountHeaderLength {
		return errors.Wrapf(errors.ErrDatabase, "account is %d bytes", len(raw))
	}
	a.Balance = binary.LittleEndian.Uint64(raw)
	copy(a.Owner[:], raw[8:AccountHeaderLength])
	a.Data = append([]byte(nil), raw[AccountHeaderLength:]...)
	return nil
}

// Validate ensures the account can be persisted.
func (a *Account) Validate() error {
	if a.Owner.IsZero() {
		return errors.Wrap(ErrInvalidAccount, "missing owner")
	}
	if len(a.Data) > MaxDataSize {
		return errors.Wrapf(ErrInvalidAccount, "data size %d", len(a.Data))
	}
	return nil
}

// IsEmpty returns true for an account that is not distinguishable from a
// never existing one.
func (a *Account) IsEmpty() bool {
	return a.Balance == 0 && len(a.Data) == 0 && (a.Owner.IsZero() || a.Owner == ProgramID)
}

// AsAccount will safely type-cast any value from Bucket to an Account
func AsAccount(obj orm.Object) *Account {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Account)
}

// Bucket stores accounts keyed by address, indexed by owner program.
type Bucket struct {
	orm.Bucket
}

// BucketName is where we store the accounts
const BucketName = "acct"

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Account))).
			WithIndex("owner", ownerIndex),
	}
}

func ownerIndex(obj orm.Object) ([]byte, error) {
	acct := AsAccount(obj)
	if acct == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return acct.Owner.Bytes(), nil
}

// ByOwner returns the addresses and accounts owned by given program.
func (b Bucket) ByOwner(db dealchain.ReadOnlyKVStore, owner dealchain.Address) ([]dealchain.Address, []*Account, error) {
	objs, err := b.GetIndexed(db, "owner", owner.Bytes())
	if err != nil {
		return nil, nil, err
	}
	addrs := make([]dealchain.Address, len(objs))
	accts := make([]*Account, len(objs))
	for i, obj := range objs {
		addr, err := dealchain.NewAddress(obj.Key())
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrDatabase, "account key")
		}
		addrs[i] = addr
		accts[i] = AsAccount(obj)
	}
	return addrs, accts, nil
}

func newAccountObj(addr dealchain.Address, acct *Account) orm.Object {
	return orm.NewSimpleObj(addr.Bytes(), acct)
}
