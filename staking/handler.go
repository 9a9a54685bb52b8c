package staking

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hotpot-network/hotpot/sysaction"
)

// Handler implements sysaction.Handler for actions sent to one pot.
type Handler struct {
	pot *Pot
}

// NewHandler creates a handler serving actions addressed to pot.
func NewHandler(pot *Pot) *Handler {
	return &Handler{pot: pot}
}

func (h *Handler) CanHandle(kind sysaction.ActionKind, to common.Address) bool {
	if to != h.pot.Address() {
		return false
	}
	switch kind {
	case sysaction.ActionPotDeposit,
		sysaction.ActionPotWithdraw,
		sysaction.ActionPotClaimReward,
		sysaction.ActionPotEmergencyWithdraw,
		sysaction.ActionPotUpdatePool,
		sysaction.ActionPotMassUpdatePools,
		sysaction.ActionPotAddPool,
		sysaction.ActionPotSetPool,
		sysaction.ActionPotSetCircuitBreaker,
		sysaction.ActionPotSetHotpotBasePerBlock,
		sysaction.ActionPotSetTipRate,
		sysaction.ActionPotSetRedPotShare,
		sysaction.ActionPotSetDev,
		sysaction.ActionPotTransferOwnership:
		return true
	}
	return false
}

func (h *Handler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	from := ctx.From

	switch sa.Action {
	case sysaction.ActionPotDeposit, sysaction.ActionPotWithdraw:
		var p sysaction.PoolAmountPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		amount, err := sysaction.ParseAmount("amount", p.Amount)
		if err != nil {
			return err
		}
		if sa.Action == sysaction.ActionPotDeposit {
			return h.pot.Deposit(from, p.Pid, amount)
		}
		return h.pot.Withdraw(from, p.Pid, amount)

	case sysaction.ActionPotClaimReward:
		var p sysaction.ClaimRewardPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		waiter, err := sysaction.ParseAddress("waiter", p.Waiter)
		if err != nil {
			return err
		}
		return h.pot.ClaimReward(from, p.Pid, waiter)

	case sysaction.ActionPotEmergencyWithdraw, sysaction.ActionPotUpdatePool:
		var p sysaction.PoolPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		if sa.Action == sysaction.ActionPotEmergencyWithdraw {
			return h.pot.EmergencyWithdraw(from, p.Pid)
		}
		return h.pot.UpdatePool(p.Pid)

	case sysaction.ActionPotMassUpdatePools:
		return h.pot.MassUpdatePools()

	case sysaction.ActionPotAddPool:
		var p sysaction.AddPoolPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		tok, err := sysaction.ParseAddress("token", p.Token)
		if err != nil {
			return err
		}
		return h.pot.AddPool(from, p.AllocPoint, tok, p.IsRed, p.WithUpdate)

	case sysaction.ActionPotSetPool:
		var p sysaction.SetPoolPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		return h.pot.SetPool(from, p.Pid, p.AllocPoint, p.WithUpdate)

	case sysaction.ActionPotSetCircuitBreaker:
		var p sysaction.FlagPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		return h.pot.SetCircuitBreaker(from, p.Enabled)

	case sysaction.ActionPotSetHotpotBasePerBlock, sysaction.ActionPotSetTipRate, sysaction.ActionPotSetRedPotShare:
		var p sysaction.ValuePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		v, err := sysaction.ParseAmount("value", p.Value)
		if err != nil {
			return err
		}
		switch sa.Action {
		case sysaction.ActionPotSetHotpotBasePerBlock:
			return h.pot.SetHotpotBasePerBlock(from, v)
		case sysaction.ActionPotSetTipRate:
			return h.pot.SetTipRate(from, v)
		}
		return h.pot.SetRedPotShare(from, v)

	case sysaction.ActionPotSetDev, sysaction.ActionPotTransferOwnership:
		var p sysaction.AddressPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		addr, err := sysaction.ParseAddress("address", p.Address)
		if err != nil {
			return err
		}
		if sa.Action == sysaction.ActionPotSetDev {
			return h.pot.Dev(from, addr)
		}
		return h.pot.TransferPotOwnership(from, addr)
	}
	return fmt.Errorf("staking handler: unsupported action %q", sa.Action)
}
