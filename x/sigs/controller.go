package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/crypto"
	"github.com/iov-one/dealchain/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// SignBytes returns the canonical byte representation of the transaction
// that every signer signs: the transaction serialized without signatures.
func SignBytes(tx *dealchain.Tx) ([]byte, error) {
	unsigned := dealchain.Tx{
		Instructions: tx.Instructions,
		Memo:         tx.Memo,
	}
	return dealchain.MarshalTx(&unsigned)
}

// VerifyTxSignatures checks all the signatures on the tx.
//
// returns list of signer addresses (possibly empty),
// or error if any signature is invalid
func VerifyTxSignatures(db dealchain.KVStore, tx *dealchain.Tx, chainID string) ([]dealchain.Address, error) {
	bz, err := SignBytes(tx)
	if err != nil {
		return nil, err
	}

	signers := make([]dealchain.Address, 0, len(tx.Signatures))
	for i, sig := range tx.Signatures {
		signer, err := VerifySignature(db, sig, bz, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against signbytes,
// check chain and updates state in the store
func VerifySignature(db dealchain.KVStore, sig *dealchain.StdSignature, signBytes []byte, chainID string) (dealchain.Address, error) {
	if err := validateSignature(sig); err != nil {
		return dealchain.ZeroAddress, err
	}
	signer, err := dealchain.NewAddress(sig.PubKey)
	if err != nil {
		return dealchain.ZeroAddress, errors.Wrap(errors.ErrUnauthorized, "malformed public key")
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, signer)
	if err != nil {
		return dealchain.ZeroAddress, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return dealchain.ZeroAddress, err
	}
	if !crypto.PublicKeyFromAddress(signer).Verify(toSign, sig.Signature) {
		return dealchain.ZeroAddress, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	user := AsUser(obj)
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return dealchain.ZeroAddress, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return dealchain.ZeroAddress, err
	}
	return signer, nil
}

func validateSignature(s *dealchain.StdSignature) error {
	if s == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.PubKey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | nonce             | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !dealchain.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	// constant length output to feed into eddsa, so hardware wallets can
	// sign as well
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx *dealchain.Tx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := SignBytes(tx)
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.Signer, tx *dealchain.Tx, chainID string, seq int64) (*dealchain.StdSignature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}
	return &dealchain.StdSignature{
		Sequence:  seq,
		PubKey:    signer.PublicKey().Address().Bytes(),
		Signature: sig,
	}, nil
}
