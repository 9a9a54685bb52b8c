package sysaction

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
	"github.com/hotpot-network/hotpot/potdb/memorydb"
	"github.com/hotpot-network/hotpot/state"
)

var (
	counterAddr = common.HexToAddress("0x00000000000000000000000000000000000c0de1")
	counterSlot = common.BytesToHash(crypto.Keccak256([]byte("counter")))
	errOdd      = errors.New("odd value")
)

type bumpEvent struct{ By uint64 }

// counterHandler adds ValuePayload.Value to a slot and refuses odd values
// after writing them, so failures exercise the rollback.
type counterHandler struct{}

func (counterHandler) CanHandle(kind ActionKind, to common.Address) bool {
	return kind == "BUMP" && to == counterAddr
}

func (counterHandler) Handle(ctx *Context, sa *SysAction) error {
	var p ValuePayload
	if err := DecodePayload(sa, &p); err != nil {
		return err
	}
	by, err := ParseAmount("value", p.Value)
	if err != nil {
		return err
	}
	db := ctx.StateDB
	db.SetUint64(counterAddr, counterSlot, db.GetUint64(counterAddr, counterSlot)+by.Uint64())
	db.AddLog(counterAddr, bumpEvent{By: by.Uint64()})
	if by.Uint64()%2 == 1 {
		return errOdd
	}
	return nil
}

func newTestExecutor(t *testing.T) (*state.StateDB, *Executor) {
	t.Helper()
	db, err := state.New(memorydb.New())
	if err != nil {
		t.Fatal(err)
	}
	return db, NewExecutor(db, NewRegistry(counterHandler{}))
}

func bump(t *testing.T, by uint64) []byte {
	t.Helper()
	data, err := MakeSysAction("BUMP", counterAddr, ValuePayload{Value: uint256.NewInt(by).Dec()})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestExecute(t *testing.T) {
	db, ex := newTestExecutor(t)
	ch := make(chan []*state.Log, 4)
	sub := ex.SubscribeLogs(ch)
	defer sub.Unsubscribe()

	logs, err := ex.Execute(common.Address{1}, bump(t, 2))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(logs) != 1 || logs[0].Event.(bumpEvent).By != 2 {
		t.Fatalf("unexpected logs %+v", logs)
	}
	if got := <-ch; len(got) != 1 {
		t.Fatalf("feed delivered %d logs", len(got))
	}

	if _, err := ex.Execute(common.Address{1}, bump(t, 3)); !errors.Is(err, errOdd) {
		t.Fatalf("have %v want %v", err, errOdd)
	}
	if v := db.GetUint64(counterAddr, counterSlot); v != 2 {
		t.Fatalf("failed action not rolled back: counter %d", v)
	}
	if db.LogCount() != 1 {
		t.Fatalf("failed action left logs: %d", db.LogCount())
	}
	select {
	case got := <-ch:
		t.Fatalf("failed action published logs %+v", got)
	default:
	}

	if n, err := ex.Commit(); err != nil || n != 1 {
		t.Fatalf("commit: (%d, %v)", n, err)
	}
}

func TestSlowSubscriberDoesNotBlockCommit(t *testing.T) {
	_, ex := newTestExecutor(t)
	fast := make(chan []*state.Log, 1)
	slow := make(chan []*state.Log)
	defer ex.SubscribeLogs(fast).Unsubscribe()
	defer ex.SubscribeLogs(slow).Unsubscribe()

	data := bump(t, 2)
	done := make(chan error, 1)
	go func() {
		_, err := ex.Execute(common.Address{1}, data)
		done <- err
	}()
	// The action is applied once the fast subscriber has its logs; the
	// executor is now waiting on the slow one.
	<-fast

	committed := make(chan error, 1)
	go func() {
		_, err := ex.Commit()
		committed <- err
	}()
	select {
	case err := <-committed:
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("commit blocked behind an unread subscription")
	}

	<-slow
	if err := <-done; err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestExecuteRejects(t *testing.T) {
	_, ex := newTestExecutor(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("{")},
		{"no action", []byte(`{"to":"0x00000000000000000000000000000000000c0de1"}`)},
		{"bad target", []byte(`{"action":"BUMP","to":"pot"}`)},
		{"unknown action", []byte(`{"action":"NOPE","to":"0x00000000000000000000000000000000000c0de1"}`)},
		{"wrong target", []byte(`{"action":"BUMP","to":"0x0000000000000000000000000000000000000001"}`)},
	}
	for _, tt := range tests {
		if _, err := ex.Execute(common.Address{1}, tt.data); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseFields(t *testing.T) {
	if v, err := ParseAmount("amount", "105263157894736842105"); err != nil || v.Dec() != "105263157894736842105" {
		t.Fatalf("ParseAmount: %v, %v", v, err)
	}
	if v, err := ParseAmount("amount", ""); err != nil || !v.IsZero() {
		t.Fatalf("empty amount: %v, %v", v, err)
	}
	if _, err := ParseAmount("amount", "-1"); !errors.Is(err, errs.ErrInvalidParameter) {
		t.Fatalf("negative amount: %v", err)
	}
	if _, err := ParseAddress("waiter", "0xzz"); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("bad address: %v", err)
	}
}
