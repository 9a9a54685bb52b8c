package rebase

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/params"
)

func (c *Controller) SetPendingGov(caller, pending common.Address) error {
	return c.db.Atomic(func() error { return c.gov.Propose(caller, pending) })
}

func (c *Controller) AcceptGov(caller common.Address) error {
	return c.db.Atomic(func() error { return c.gov.Accept(caller) })
}

// SetDeviationThreshold sets the half-width of the no-action band as a 1e18
// fraction in (0, 1).
func (c *Controller) SetDeviationThreshold(caller common.Address, v *uint256.Int) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		switch {
		case v == nil || v.IsZero():
			return ErrDeviationThresholdTooLow
		case !v.Lt(params.PriceScale):
			return ErrDeviationThresholdTooHigh
		}
		old := c.getU256(deviationThresholdSlot)
		c.setU256(deviationThresholdSlot, v)
		c.db.AddLog(c.addr, NewDeviationThresholdEvent{Old: old, New: v.Clone()})
		log.Info("Set deviation threshold", "old", old, "new", v)
		return nil
	})
}

// SetDeviationMovement sets the target price step as a 1e18 fraction in (0, 1).
func (c *Controller) SetDeviationMovement(caller common.Address, v *uint256.Int) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		switch {
		case v == nil || v.IsZero():
			return ErrDeviationMovementTooLow
		case !v.Lt(params.PriceScale):
			return ErrDeviationMovementTooHigh
		}
		old := c.getU256(deviationMovementSlot)
		c.setU256(deviationMovementSlot, v)
		c.db.AddLog(c.addr, NewDeviationMovementEvent{Old: old, New: v.Clone()})
		log.Info("Set deviation movement", "old", old, "new", v)
		return nil
	})
}

func (c *Controller) SetRetargetThreshold(caller common.Address, v uint64) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		if v == 0 {
			return ErrRetargetThresholdTooLow
		}
		old := c.getU64(retargetThresholdSlot)
		c.setU64(retargetThresholdSlot, v)
		c.db.AddLog(c.addr, NewRetargetThresholdEvent{Old: old, New: v})
		log.Info("Set retarget threshold", "old", old, "new", v)
		return nil
	})
}

// SetTargetStock2Flow changes the halving interval. Halvings already counted
// are kept.
func (c *Controller) SetTargetStock2Flow(caller common.Address, v uint64) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		if v == 0 {
			return ErrTargetStock2FlowTooLow
		}
		old := c.getU64(targetStock2FlowSlot)
		c.setU64(targetStock2FlowSlot, v)
		c.db.AddLog(c.addr, NewTargetStock2FlowEvent{Old: old, New: v})
		log.Info("Set target stock-to-flow", "old", old, "new", v)
		return nil
	})
}

// SetRebaseTimingParameters replaces the rebase schedule. The window must fit
// inside one interval. The activation delay is left unchanged.
func (c *Controller) SetRebaseTimingParameters(caller common.Address, interval, offset, length uint64) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		if err := params.ValidateRebaseTiming(interval, offset, length); err != nil {
			return err
		}
		old := c.ReadTiming()
		next := TimingConfig{
			MinRebaseTimeIntervalSec: interval,
			RebaseWindowOffsetSec:    offset,
			RebaseWindowLengthSec:    length,
			RebaseDelaySec:           old.RebaseDelaySec,
		}
		c.writeTiming(next)
		c.db.AddLog(c.addr, NewRebaseTimingEvent{Old: old, New: next})
		log.Info("Set rebase timing", "interval", interval, "offset", offset, "length", length)
		return nil
	})
}

// Pot administration. The controller owns the pot, so these forward gov
// calls with the controller as caller.

func (c *Controller) AddPool(caller common.Address, allocPoint uint64, tok common.Address, isRed, withUpdate bool) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		return c.pot.AddPool(c.addr, allocPoint, tok, isRed, withUpdate)
	})
}

func (c *Controller) SetPool(caller common.Address, pid, allocPoint uint64, withUpdate bool) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		return c.pot.SetPool(c.addr, pid, allocPoint, withUpdate)
	})
}

func (c *Controller) SetTipRate(caller common.Address, tipRate *uint256.Int) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		return c.pot.SetTipRate(c.addr, tipRate)
	})
}

func (c *Controller) SetRedPotShare(caller common.Address, share *uint256.Int) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		return c.pot.SetRedPotShare(c.addr, share)
	})
}

// TransferPotOwnership hands the pot to newOwner. The controller can no
// longer rebase it afterwards.
func (c *Controller) TransferPotOwnership(caller, newOwner common.Address) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		return c.pot.TransferPotOwnership(c.addr, newOwner)
	})
}
