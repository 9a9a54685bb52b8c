package roles

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hotpot-network/hotpot/errs"
	"github.com/hotpot-network/hotpot/potdb/memorydb"
	"github.com/hotpot-network/hotpot/state"
)

func tAddr(b byte) common.Address { return common.Address{19: b} }

func newTestState(t *testing.T) *state.StateDB {
	t.Helper()
	db, err := state.New(memorydb.New())
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestOwnable(t *testing.T) {
	db := newTestState(t)
	o := NewOwnable(db, tAddr(0xc0), "pot")
	o.Init(tAddr(1))

	if err := o.Require(tAddr(2)); !errors.Is(err, errs.ErrAccessControl) {
		t.Fatalf("non-owner passed: %v", err)
	}
	if err := o.Transfer(tAddr(2), tAddr(3)); err != ErrNotOwner {
		t.Fatalf("transfer by non-owner: have %v want %v", err, ErrNotOwner)
	}
	if err := o.Transfer(tAddr(1), common.Address{}); err != ErrZeroOwner {
		t.Fatalf("transfer to zero: have %v want %v", err, ErrZeroOwner)
	}
	if err := o.Transfer(tAddr(1), tAddr(3)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if o.Owner() != tAddr(3) {
		t.Fatalf("owner: have %v want %v", o.Owner(), tAddr(3))
	}
	logs := db.Logs()
	if len(logs) != 2 {
		t.Fatalf("logs: have %d want 2", len(logs))
	}
	ev := logs[1].Event.(OwnershipTransferredEvent)
	if ev.PreviousOwner != tAddr(1) || ev.NewOwner != tAddr(3) {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestGovernanceHandoff(t *testing.T) {
	db := newTestState(t)
	g := NewGovernance(db, tAddr(0xc1), "rebase")
	g.Init(tAddr(1))

	if err := g.Accept(tAddr(2)); err != ErrNotPendingGov {
		t.Fatalf("accept without pending: have %v", err)
	}
	if err := g.Propose(tAddr(2), tAddr(2)); err != ErrNotGov {
		t.Fatalf("propose by non-gov: have %v", err)
	}
	if err := g.Propose(tAddr(1), tAddr(2)); err != nil {
		t.Fatalf("propose: %v", err)
	}
	if err := g.Accept(tAddr(3)); err != ErrNotPendingGov {
		t.Fatalf("accept by stranger: have %v", err)
	}
	if g.Gov() != tAddr(1) {
		t.Fatal("gov changed before accept")
	}
	if err := g.Accept(tAddr(2)); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if g.Gov() != tAddr(2) || g.PendingGov() != (common.Address{}) {
		t.Fatalf("after accept: gov %v pending %v", g.Gov(), g.PendingGov())
	}

	logs := db.Logs()
	if len(logs) != 2 {
		t.Fatalf("logs: have %d want 2", len(logs))
	}
	if ev := logs[0].Event.(NewPendingGovEvent); ev.OldPendingGov != (common.Address{}) || ev.NewPendingGov != tAddr(2) {
		t.Fatalf("unexpected pending event %+v", ev)
	}
	if ev := logs[1].Event.(NewGovEvent); ev.OldGov != tAddr(1) || ev.NewGov != tAddr(2) {
		t.Fatalf("unexpected gov event %+v", ev)
	}
}

func TestRolesNamespaced(t *testing.T) {
	db := newTestState(t)
	addr := tAddr(0xc0)
	NewOwnable(db, addr, "a").Init(tAddr(1))
	NewOwnable(db, addr, "b").Init(tAddr(2))

	if owner := NewOwnable(db, addr, "a").Owner(); owner != tAddr(1) {
		t.Fatalf("namespace a owner: %v", owner)
	}
}
