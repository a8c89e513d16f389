package dealchain

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/dealchain/errors"
)

const (
	// MaxInstructions limits how many instructions a single transaction may
	// carry.
	MaxInstructions = 16
	// MaxInstructionAccounts limits the account handles per instruction.
	MaxInstructionAccounts = 32
)

// Tx is the data sent from the user to the chain. It carries an ordered
// list of instructions and the signatures authorizing them. All instructions
// are executed atomically.
type Tx struct {
	Instructions []*Instruction  `protobuf:"bytes,1,rep,name=instructions,proto3" json:"instructions,omitempty"`
	Signatures   []*StdSignature `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Memo         string          `protobuf:"bytes,3,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// Instruction addresses a single program. Accounts are positional, each
// program documents which position means what.
type Instruction struct {
	ProgramID []byte         `protobuf:"bytes,1,opt,name=program_id,json=programId,proto3" json:"program_id,omitempty"`
	Accounts  []*AccountMeta `protobuf:"bytes,2,rep,name=accounts,proto3" json:"accounts,omitempty"`
	Data      []byte         `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *Instruction) Reset()         { *m = Instruction{} }
func (m *Instruction) String() string { return proto.CompactTextString(m) }
func (*Instruction) ProtoMessage()    {}

// AccountMeta is an account handle passed to a program.
type AccountMeta struct {
	Pubkey     []byte `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	IsSigner   bool   `protobuf:"varint,2,opt,name=is_signer,json=isSigner,proto3" json:"is_signer,omitempty"`
	IsWritable bool   `protobuf:"varint,3,opt,name=is_writable,json=isWritable,proto3" json:"is_writable,omitempty"`
}

func (m *AccountMeta) Reset()         { *m = AccountMeta{} }
func (m *AccountMeta) String() string { return proto.CompactTextString(m) }
func (*AccountMeta) ProtoMessage()    {}

// StdSignature is an ed25519 signature of the transaction sign bytes. The
// public key is the signer address.
type StdSignature struct {
	Sequence  int64  `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	PubKey    []byte `protobuf:"bytes,2,opt,name=pub_key,json=pubKey,proto3" json:"pub_key,omitempty"`
	Signature []byte `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *StdSignature) Reset()         { *m = StdSignature{} }
func (m *StdSignature) String() string { return proto.CompactTextString(m) }
func (*StdSignature) ProtoMessage()    {}

// NewAccountMeta creates an account handle.
func NewAccountMeta(addr Address, signer, writable bool) *AccountMeta {
	return &AccountMeta{
		Pubkey:     addr.Bytes(),
		IsSigner:   signer,
		IsWritable: writable,
	}
}

// Address returns the account key of this handle.
func (m *AccountMeta) Address() (Address, error) {
	if m == nil {
		return ZeroAddress, errors.Wrap(errors.ErrEmpty, "account meta")
	}
	return NewAddress(m.Pubkey)
}

// Program returns the program id this instruction is addressed to.
func (m *Instruction) Program() (Address, error) {
	return NewAddress(m.ProgramID)
}

// Validate checks the structure of the instruction, not its content.
func (m *Instruction) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "instruction")
	}
	if _, err := m.Program(); err != nil {
		return errors.Wrap(err, "program id")
	}
	if len(m.Accounts) > MaxInstructionAccounts {
		return errors.Wrapf(errors.ErrInput, "too many accounts: %d", len(m.Accounts))
	}
	for i, a := range m.Accounts {
		if _, err := a.Address(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

// Validate checks the structure of the transaction and all its
// instructions.
func (m *Tx) Validate() error {
	if len(m.Instructions) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no instructions")
	}
	if len(m.Instructions) > MaxInstructions {
		return errors.Wrapf(errors.ErrInput, "too many instructions: %d", len(m.Instructions))
	}
	for i, ix := range m.Instructions {
		if err := ix.Validate(); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	return nil
}

// Programs returns the ids of all programs referenced by this transaction,
// in order of first appearance.
func (m *Tx) Programs() []Address {
	seen := make(map[Address]struct{})
	var res []Address
	for _, ix := range m.Instructions {
		id, err := ix.Program()
		if err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

// MarshalTx serializes a transaction into its wire representation.
func MarshalTx(tx *Tx) ([]byte, error) {
	raw, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// UnmarshalTx is the TxDecoder used by the application.
func UnmarshalTx(raw []byte) (*Tx, error) {
	var tx Tx
	if err := proto.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &tx, nil
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (*Tx, error)
