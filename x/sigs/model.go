package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/errors"
	"github.com/iov-one/dealchain/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a javascript client can represent
// without precision loss: Number.MAX_SAFE_INTEGER.
const maxSequenceValue = (1 << 53) - 1

// UserData is the replay protection state of a single signer.
type UserData struct {
	Sequence int64 `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

var _ orm.Model = (*UserData)(nil)

// sequenceKey is the protobuf key of the varint sequence field.
const sequenceKey = 1<<3 | proto.WireVarint

// Marshal serializes the user data using the protobuf wire format.
func (u *UserData) Marshal() ([]byte, error) {
	if u.Sequence == 0 {
		return []byte{}, nil
	}
	raw := proto.EncodeVarint(sequenceKey)
	return append(raw, proto.EncodeVarint(uint64(u.Sequence))...), nil
}

// Unmarshal loads the user data from its binary representation. Unknown
// varint fields are skipped.
func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	for len(raw) > 0 {
		key, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrModel, "malformed field key")
		}
		raw = raw[n:]
		if key&7 != proto.WireVarint {
			return errors.Wrapf(errors.ErrModel, "unsupported wire type %d", key&7)
		}
		val, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrModel, "malformed varint")
		}
		raw = raw[n:]
		if key == sequenceKey {
			u.Sequence = int64(val)
		}
	}
	return nil
}

// Validate returns an error for a negative or out of range sequence.
func (u *UserData) Validate() error {
	if u.Sequence < 0 || u.Sequence > maxSequenceValue {
		return errors.Wrapf(ErrInvalidSequence, "out of range: %d", u.Sequence)
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object for the signer address.
func NewUser(signer dealchain.Address) orm.Object {
	var key []byte
	if !signer.IsZero() {
		key = signer.Bytes()
	}
	return orm.NewSimpleObj(key, &UserData{})
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(dealchain.ZeroAddress)),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db dealchain.ReadOnlyKVStore, signer dealchain.Address) (orm.Object, error) {
	obj, err := b.Get(db, signer.Bytes())
	if err == nil && obj == nil {
		obj = NewUser(signer)
	}
	return obj, err
}
