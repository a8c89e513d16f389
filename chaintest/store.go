package chaintest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db dealchain.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "chaintest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	commit, err := iavl.NewCommitStore(dbpath, "db")
	if err != nil {
		t.Fatalf("cannot create commit store: %s", err)
	}
	return commit, func() { os.RemoveAll(dbpath) }
}
