package rebase

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hotpot-network/hotpot/errs"
	"github.com/hotpot-network/hotpot/sysaction"
)

// Handler implements sysaction.Handler for actions sent to one controller,
// including the pot administration it forwards.
type Handler struct {
	ctrl *Controller
}

func NewHandler(ctrl *Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

func (h *Handler) CanHandle(kind sysaction.ActionKind, to common.Address) bool {
	if to != h.ctrl.Address() {
		return false
	}
	switch kind {
	case sysaction.ActionRebaseInitTwap,
		sysaction.ActionRebaseActivate,
		sysaction.ActionRebase,
		sysaction.ActionRebaseSetPendingGov,
		sysaction.ActionRebaseAcceptGov,
		sysaction.ActionRebaseSetDeviationThreshold,
		sysaction.ActionRebaseSetDeviationMovement,
		sysaction.ActionRebaseSetRetargetThreshold,
		sysaction.ActionRebaseSetTargetStock2Flow,
		sysaction.ActionRebaseSetTiming,
		sysaction.ActionPotAddPool,
		sysaction.ActionPotSetPool,
		sysaction.ActionPotSetTipRate,
		sysaction.ActionPotSetRedPotShare,
		sysaction.ActionPotTransferOwnership:
		return true
	}
	return false
}

func (h *Handler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	from := ctx.From

	switch sa.Action {
	case sysaction.ActionRebaseInitTwap:
		return h.ctrl.InitTwap(from)
	case sysaction.ActionRebaseActivate:
		return h.ctrl.ActivateRebasing()
	case sysaction.ActionRebase:
		return h.ctrl.Rebase(from)
	case sysaction.ActionRebaseAcceptGov:
		return h.ctrl.AcceptGov(from)

	case sysaction.ActionRebaseSetPendingGov, sysaction.ActionPotTransferOwnership:
		var p sysaction.AddressPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		addr, err := sysaction.ParseAddress("address", p.Address)
		if err != nil {
			return err
		}
		if sa.Action == sysaction.ActionRebaseSetPendingGov {
			return h.ctrl.SetPendingGov(from, addr)
		}
		return h.ctrl.TransferPotOwnership(from, addr)

	case sysaction.ActionRebaseSetDeviationThreshold,
		sysaction.ActionRebaseSetDeviationMovement,
		sysaction.ActionPotSetTipRate,
		sysaction.ActionPotSetRedPotShare:
		var p sysaction.ValuePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		v, err := sysaction.ParseAmount("value", p.Value)
		if err != nil {
			return err
		}
		switch sa.Action {
		case sysaction.ActionRebaseSetDeviationThreshold:
			return h.ctrl.SetDeviationThreshold(from, v)
		case sysaction.ActionRebaseSetDeviationMovement:
			return h.ctrl.SetDeviationMovement(from, v)
		case sysaction.ActionPotSetTipRate:
			return h.ctrl.SetTipRate(from, v)
		}
		return h.ctrl.SetRedPotShare(from, v)

	case sysaction.ActionRebaseSetRetargetThreshold, sysaction.ActionRebaseSetTargetStock2Flow:
		var p sysaction.ValuePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		v, err := sysaction.ParseAmount("value", p.Value)
		if err != nil {
			return err
		}
		if !v.IsUint64() {
			return fmt.Errorf("%w: value: out of range", errs.ErrInvalidParameter)
		}
		if sa.Action == sysaction.ActionRebaseSetRetargetThreshold {
			return h.ctrl.SetRetargetThreshold(from, v.Uint64())
		}
		return h.ctrl.SetTargetStock2Flow(from, v.Uint64())

	case sysaction.ActionRebaseSetTiming:
		var p sysaction.TimingPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		return h.ctrl.SetRebaseTimingParameters(from, p.MinRebaseTimeIntervalSec, p.RebaseWindowOffsetSec, p.RebaseWindowLengthSec)

	case sysaction.ActionPotAddPool:
		var p sysaction.AddPoolPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		tok, err := sysaction.ParseAddress("token", p.Token)
		if err != nil {
			return err
		}
		return h.ctrl.AddPool(from, p.AllocPoint, tok, p.IsRed, p.WithUpdate)

	case sysaction.ActionPotSetPool:
		var p sysaction.SetPoolPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		return h.ctrl.SetPool(from, p.Pid, p.AllocPoint, p.WithUpdate)
	}
	return fmt.Errorf("rebase handler: unsupported action %q", sa.Action)
}
