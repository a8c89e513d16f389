package chaintest

import "github.com/iov-one/dealchain"

// Instruction returns an instruction for given program carrying data and
// no accounts.
func Instruction(program dealchain.Address, data []byte) *dealchain.Instruction {
	return &dealchain.Instruction{
		ProgramID: program.Bytes(),
		Data:      data,
	}
}

// Tx returns an unsigned transaction with given instructions.
func Tx(ixs ...*dealchain.Instruction) *dealchain.Tx {
	return &dealchain.Tx{Instructions: ixs}
}
