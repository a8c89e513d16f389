package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/iov-one/dealchain"
	"github.com/iov-one/dealchain/chaintest"
	dealchaind "github.com/iov-one/dealchain/cmd/dealchaind/app"
	"github.com/iov-one/dealchain/x/deal"
	"github.com/iov-one/dealchain/x/system"
	"github.com/iov-one/dealchain/x/token"
)

func TestDealPipeline(t *testing.T) {
	initKey, initAddr := newKeyFile(t)
	takerKey, takerAddr := newKeyFile(t)
	mintA, mintB := chaintest.NewAddress(), chaintest.NewAddress()

	gen := dealchaind.GenesisTemplate(initAddr)
	gen.System = append(gen.System, system.GenesisAccount{Address: takerAddr, Balance: 1000000000})
	gen.Token = []token.GenesisMint{
		{Address: mintA, Decimals: 3, Authority: initAddr, Holders: []token.GenesisHolder{{Owner: initAddr, Amount: 1000}}},
		{Address: mintB, Decimals: 3, Authority: initAddr, Holders: []token.GenesisHolder{{Owner: takerAddr, Amount: 1000}}},
	}
	defer withApp(t, gen)()

	tx := run(t, cmdInitDeal, nil,
		"-initializer", initAddr.String(),
		"-mint-a", mintA.String(),
		"-mint-b", mintB.String(),
		"-amount", "600",
		"-expected", "250",
		"-seed", "3",
	)
	signed := run(t, cmdSignTransaction, tx, "-key", initKey)

	var view txView
	if err := json.Unmarshal(run(t, cmdTransactionView, signed), &view); err != nil {
		t.Fatalf("cannot decode view: %s", err)
	}
	if len(view.Signers) != 1 || view.Signers[0] != initAddr {
		t.Fatalf("unexpected signers %v", view.Signers)
	}
	if len(view.Instructions) != 1 || view.Instructions[0].Program != deal.ProgramID {
		t.Fatalf("unexpected instructions %+v", view.Instructions)
	}

	dealAddr, _, err := deal.DealAddress(deal.ProgramID, 3, initAddr)
	if err != nil {
		t.Fatalf("cannot derive deal address: %s", err)
	}
	lines := strings.Split(strings.TrimSpace(string(run(t, cmdSubmitTransaction, signed))), "\n")
	if len(lines) != 2 {
		t.Fatalf("want id and deal address, got %q", lines)
	}
	if lines[1] != dealAddr.String() {
		t.Fatalf("want deal %s, got %s", dealAddr, lines[1])
	}

	var listed dealJSON
	if err := json.Unmarshal(run(t, cmdDeals, nil, "-initializer", initAddr.String()), &listed); err != nil {
		t.Fatalf("cannot decode deal: %s", err)
	}
	if listed.Address != dealAddr || !listed.Open || listed.ExpectedAmount != 250 || listed.Seed != 3 {
		t.Fatalf("unexpected deal %+v", listed)
	}
	if out := run(t, cmdDeals, nil, "-initializer", takerAddr.String()); len(out) != 0 {
		t.Fatalf("taker has no deals, got %s", out)
	}
	assertBalance(t, initAddr, mintA, 400)

	tx = run(t, cmdExchange, nil,
		"-taker", takerAddr.String(),
		"-initializer", initAddr.String(),
		"-mint-a", mintA.String(),
		"-mint-b", mintB.String(),
		"-amount", "250",
		"-seed", "3",
	)
	signed = run(t, cmdSignTransaction, tx, "-key", takerKey)
	run(t, cmdSubmitTransaction, signed)

	assertBalance(t, takerAddr, mintA, 600)
	assertBalance(t, takerAddr, mintB, 750)
	assertBalance(t, initAddr, mintB, 250)
	if out := run(t, cmdDeals, nil); len(out) != 0 {
		t.Fatalf("want no open deals, got %s", out)
	}
	if err := cmdDeals(nil, &bytes.Buffer{}, []string{"-deal", dealAddr.String()}); err == nil {
		t.Fatal("closed deal must not be found")
	}

	// the deal was consumed
	signed = run(t, cmdSignTransaction, tx, "-key", takerKey)
	if err := cmdSubmitTransaction(bytes.NewReader(signed), &bytes.Buffer{}, nil); err == nil {
		t.Fatal("exchanged deal twice")
	}
}

func assertBalance(t *testing.T, owner, mint dealchain.Address, want uint64) {
	t.Helper()
	out := run(t, cmdBalance, nil, "-owner", owner.String(), "-mint", mint.String())
	got, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		t.Fatalf("cannot parse balance %q: %s", out, err)
	}
	if got != want {
		t.Fatalf("want balance %d, got %d", want, got)
	}
}

func TestInitDealRequiresAccounts(t *testing.T) {
	err := cmdInitDeal(nil, &bytes.Buffer{}, []string{"-initializer", chaintest.NewAddress().String()})
	if err == nil {
		t.Fatal("want missing mint error")
	}
}

func TestReadWriteTx(t *testing.T) {
	var buf bytes.Buffer
	txs := []*dealchain.Tx{{Memo: "first"}, {Memo: "second"}}
	for _, tx := range txs {
		if _, err := writeTx(&buf, tx); err != nil {
			t.Fatalf("cannot write: %s", err)
		}
	}
	for _, want := range txs {
		got, _, err := readTx(&buf)
		if err != nil {
			t.Fatalf("cannot read: %s", err)
		}
		if got.Memo != want.Memo {
			t.Fatalf("want %q, got %q", want.Memo, got.Memo)
		}
	}
	if _, _, err := readTx(&buf); err == nil {
		t.Fatal("want error on empty input")
	}
}
