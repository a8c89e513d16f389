package chaintest

import "github.com/iov-one/dealchain"

// Handler is a mock implementation of the dealchain.Handler interface.
type Handler struct {
	checkCall   int
	CheckResult dealchain.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult dealchain.DeliverResult
	DeliverErr    error
}

var _ dealchain.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx) (*dealchain.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx dealchain.Context, db dealchain.KVStore, tx *dealchain.Tx) (*dealchain.DeliverResult, error) {
	h.deliverCall++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Program is a mock implementation of the dealchain.Program interface. It
// records the data of every processed instruction.
type Program struct {
	CheckErr   error
	DeliverErr error
	// Write if set is stored under the instruction data as a key on
	// every delivery.
	Write []byte

	checked   [][]byte
	delivered [][]byte
}

var _ dealchain.Program = (*Program)(nil)

func (p *Program) Check(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.CheckResult, error) {
	p.checked = append(p.checked, ix.Data)
	if p.CheckErr != nil {
		return nil, p.CheckErr
	}
	return &dealchain.CheckResult{Data: ix.Data}, nil
}

func (p *Program) Deliver(ctx dealchain.Context, db dealchain.KVStore, ix *dealchain.Instruction) (*dealchain.DeliverResult, error) {
	p.delivered = append(p.delivered, ix.Data)
	if p.Write != nil {
		if err := db.Set(ix.Data, p.Write); err != nil {
			return nil, err
		}
	}
	if p.DeliverErr != nil {
		return nil, p.DeliverErr
	}
	return &dealchain.DeliverResult{Data: ix.Data}, nil
}

// Checked returns the data of all checked instructions.
func (p *Program) Checked() [][]byte {
	return p.checked
}

// Delivered returns the data of all delivered instructions.
func (p *Program) Delivered() [][]byte {
	return p.delivered
}
