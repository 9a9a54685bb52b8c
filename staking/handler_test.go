package staking

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hotpot-network/hotpot/sysaction"
)

func makeAction(t *testing.T, kind sysaction.ActionKind, to common.Address, payload interface{}) []byte {
	t.Helper()
	data, err := sysaction.MakeSysAction(kind, to, payload)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHandlerEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	potAddr := env.pot.Address()
	ex := sysaction.NewExecutor(env.db, sysaction.NewRegistry(NewHandler(env.pot)))

	steps := []struct {
		from    common.Address
		kind    sysaction.ActionKind
		payload interface{}
	}{
		{owner, sysaction.ActionPotAddPool, sysaction.AddPoolPayload{AllocPoint: 1000, Token: redLP.Hex(), IsRed: true}},
		{owner, sysaction.ActionPotSetTipRate, sysaction.ValuePayload{Value: "20000000000"}},
		{dave, sysaction.ActionPotDeposit, sysaction.PoolAmountPayload{Pid: 0, Amount: "1000"}},
	}
	for _, s := range steps {
		if _, err := ex.Execute(s.from, makeAction(t, s.kind, potAddr, s.payload)); err != nil {
			t.Fatalf("%s: %v", s.kind, err)
		}
	}

	env.chain.SetBlockNumber(110)
	logs, err := ex.Execute(erin, makeAction(t, sysaction.ActionPotClaimReward, potAddr,
		sysaction.ClaimRewardPayload{Pid: 0, Waiter: waiter.Hex()}))
	if err != nil {
		t.Fatalf("claim with nothing deposited: %v", err)
	}
	if ev := logs[len(logs)-1].Event.(ClaimRewardEvent); !ev.Amount.IsZero() {
		t.Fatalf("erin claimed %v", ev.Amount)
	}

	if _, err := ex.Execute(dave, makeAction(t, sysaction.ActionPotClaimReward, potAddr,
		sysaction.ClaimRewardPayload{Pid: 0, Waiter: waiter.Hex()})); err != nil {
		t.Fatalf("claim: %v", err)
	}
	// 500e18 reward with a 2% tip.
	requireEq(t, "waiter", env.base.BalanceOf(waiter), e18(10))
	requireEq(t, "claimant", env.base.BalanceOf(dave), e18(440))

	if _, err := ex.Execute(dave, makeAction(t, sysaction.ActionPotWithdraw, potAddr,
		sysaction.PoolAmountPayload{Pid: 0, Amount: "1001"})); !errors.Is(err, ErrWithdrawTooMuch) {
		t.Fatalf("overdraw: have %v", err)
	}
	if _, err := ex.Execute(dave, makeAction(t, sysaction.ActionPotEmergencyWithdraw, potAddr,
		sysaction.PoolPayload{Pid: 0})); err != nil {
		t.Fatalf("emergency withdraw: %v", err)
	}
	if _, err := ex.Execute(dev, makeAction(t, sysaction.ActionPotSetDev, potAddr,
		sysaction.AddressPayload{Address: "not-an-address"})); !errors.Is(err, sysaction.ErrInvalidPayload) {
		t.Fatalf("bad address: have %v", err)
	}
}

func TestHandlerRouting(t *testing.T) {
	env := newTestEnv(t)
	h := NewHandler(env.pot)

	if !h.CanHandle(sysaction.ActionPotDeposit, env.pot.Address()) {
		t.Fatal("deposit to pot not handled")
	}
	if h.CanHandle(sysaction.ActionPotDeposit, tAddr(0x77)) {
		t.Fatal("handled action for another address")
	}
	if h.CanHandle(sysaction.ActionRebase, env.pot.Address()) {
		t.Fatal("handled controller action")
	}
}
