package dealchain

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/iov-one/dealchain/chaintest/assert"
	"github.com/iov-one/dealchain/errors"
)

func TestCreateProgramAddress(t *testing.T) {
	program, err := ParseAddress("BPFLoaderUpgradeab1e11111111111111111111111")
	assert.Nil(t, err)

	cases := map[string]struct {
		seeds   [][]byte
		want    string
		wantErr *errors.Error
	}{
		"empty seed with bump": {
			seeds: [][]byte{{}, {1}},
			want:  "BwqrghZA2htAcqq8dzP1WDAhTXYTYWj7CHxF5j7TDBAe",
		},
		"two words": {
			seeds: [][]byte{[]byte("Talking"), []byte("Squirrels")},
			want:  "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk",
		},
		"seed too long": {
			seeds:   [][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)},
			wantErr: errors.ErrInvalidSeeds,
		},
		"too many seeds": {
			seeds:   make([][]byte, MaxSeeds+1),
			wantErr: errors.ErrInvalidSeeds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := CreateProgramAddress(program, tc.seeds...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got.String())
			}
		})
	}
}

func TestFindProgramAddress(t *testing.T) {
	program := ProgramID("deal")
	initializer := ProgramID("someone")
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, 7)

	addr, bump, err := FindProgramAddress(program, seed, initializer[:])
	assert.Nil(t, err)
	if isOnCurve(addr) {
		t.Fatal("derived address must not be a valid public key")
	}

	// the search is deterministic
	again, againBump, err := FindProgramAddress(program, seed, initializer[:])
	assert.Nil(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	// the bump recreates the address
	recreated, err := CreateProgramAddress(program, seed, initializer[:], []byte{bump})
	assert.Nil(t, err)
	assert.Equal(t, addr, recreated)

	// no higher bump results in a valid address
	for b := 255; b > int(bump); b-- {
		_, err := CreateProgramAddress(program, seed, initializer[:], []byte{uint8(b)})
		assert.IsErr(t, errors.ErrInvalidSeeds, err)
	}

	// different seed, different address
	binary.LittleEndian.PutUint64(seed, 8)
	other, _, err := FindProgramAddress(program, seed, initializer[:])
	assert.Nil(t, err)
	if other == addr {
		t.Fatal("addresses must differ")
	}

	_, _, err = FindProgramAddress(program, make([][]byte, MaxSeeds)...)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)
}
