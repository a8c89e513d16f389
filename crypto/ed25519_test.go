package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest/assert"
	"github.com/iov-one/dealchain/errors"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}

	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}

	other := GenPrivKeyEd25519().PublicKey()
	if other.Verify(msg, sig) {
		t.Fatal("verified a signature with another key")
	}
}

func TestKeyAddress(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivKeyEd25519FromSeed(seed)
	assert.Nil(t, err)
	b, err := PrivKeyEd25519FromSeed(seed)
	assert.Nil(t, err)
	assert.Equal(t, a.PublicKey().Address(), b.PublicKey().Address())
	assert.Equal(t, seed, a.Seed())

	// the address round trips into a usable key
	addr := a.PublicKey().Address()
	sig, err := a.Sign([]byte("deal"))
	assert.Nil(t, err)
	if !PublicKeyFromAddress(addr).Verify([]byte("deal"), sig) {
		t.Fatal("cannot verify with a key rebuilt from the address")
	}

	// derived program addresses never verify
	pda, _, err := dealchain.FindProgramAddress(dealchain.ProgramID("deal"), []byte("x"))
	assert.Nil(t, err)
	if PublicKeyFromAddress(pda).Verify([]byte("deal"), sig) {
		t.Fatal("program address verified a signature")
	}

	_, err = PrivKeyEd25519FromSeed([]byte("short"))
	assert.IsErr(t, errors.ErrInput, err)

	var empty PrivateKey
	_, err = empty.Sign([]byte("x"))
	assert.IsErr(t, errors.ErrState, err)
}
