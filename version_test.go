package dealchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/dealchain"
)

func TestVersion(t *testing.T) {
	dealchain.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", dealchain.Version())

	dealchain.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", dealchain.Version())
	dealchain.GitCommit = ""
}
