// Package rebase implements the hotpot rebase controller.
//
// Once per rebase window the controller samples a TWAP from the price oracle,
// compares it with a target price and retargets the staking pot's per-block
// emission: emission rises with the deviation from the target, halves every
// targetStock2Flow*params.BlocksPerStock2FlowUnit blocks, and a price below
// the no-action band trips the pot's circuit breaker. Repeated deviations to
// the same side move the target price itself.
package rebase

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/chain"
	"github.com/hotpot-network/hotpot/oracle"
	"github.com/hotpot-network/hotpot/params"
	"github.com/hotpot-network/hotpot/roles"
	"github.com/hotpot-network/hotpot/staking"
	"github.com/hotpot-network/hotpot/state"
)

// Controller is a handle on the rebase controller deployed at an address. It
// must own the pot it drives.
type Controller struct {
	db     *state.StateDB
	chain  chain.Context
	addr   common.Address
	pot    *staking.Pot
	oracle oracle.Source
	gov    *roles.Governance
}

// At returns a handle on the controller at addr driving pot from src.
func At(db *state.StateDB, ctx chain.Context, addr common.Address, pot *staking.Pot, src oracle.Source) *Controller {
	return &Controller{
		db:     db,
		chain:  ctx,
		addr:   addr,
		pot:    pot,
		oracle: src,
		gov:    roles.NewGovernance(db, addr, "rebase"),
	}
}

// Deploy creates a controller at addr. The farm rate starts at the pot's
// current emission rate.
func Deploy(db *state.StateDB, ctx chain.Context, addr common.Address, pot *staking.Pot, src oracle.Source, cfg *params.RebaseConfig) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := At(db, ctx, addr, pot, src)
	if !c.getTargetPrice().IsZero() {
		return nil, ErrAlreadyDeployed
	}
	farm := pot.Emission().HotpotBasePerBlock
	err := db.Atomic(func() error {
		c.setU256(targetPriceSlot, cfg.TargetPrice.Int())
		c.setU256(deviationThresholdSlot, cfg.DeviationThreshold.Int())
		c.setU256(deviationMovementSlot, cfg.DeviationMovement.Int())
		c.setU64(retargetThresholdSlot, cfg.RetargetThreshold)
		c.setU64(targetStock2FlowSlot, cfg.TargetStock2Flow)
		c.writeTiming(TimingConfig{
			MinRebaseTimeIntervalSec: cfg.MinRebaseTimeIntervalSec,
			RebaseWindowOffsetSec:    cfg.RebaseWindowOffsetSec,
			RebaseWindowLengthSec:    cfg.RebaseWindowLengthSec,
			RebaseDelaySec:           cfg.RebaseDelaySec,
		})
		c.setU256(farmHotpotBasePerBlockSlot, farm)
		c.gov.Init(cfg.Gov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Deployed rebase controller", "address", addr, "pot", pot.Address(), "gov", cfg.Gov,
		"targetPrice", cfg.TargetPrice.Int(), "farmHotpotBasePerBlock", farm)
	return c, nil
}

func (c *Controller) Address() common.Address    { return c.addr }
func (c *Controller) Pot() *staking.Pot          { return c.pot }
func (c *Controller) Gov() common.Address        { return c.gov.Gov() }
func (c *Controller) PendingGov() common.Address { return c.gov.PendingGov() }

// InitTwap takes the first oracle sample. Gov only, once.
func (c *Controller) InitTwap(caller common.Address) error {
	return c.db.Atomic(func() error {
		if err := c.gov.RequireGov(caller); err != nil {
			return err
		}
		if c.db.GetBool(c.addr, twapInitializedSlot) {
			return ErrAlreadyInitialized
		}
		cum, ts, err := c.oracle.CurrentCumulativePrice()
		if err != nil {
			return err
		}
		if cum.IsZero() {
			return ErrNoTrades
		}
		now := c.chain.Time()
		c.setU256(priceCumulativeLastSlot, cum)
		c.setU64(blockTimestampLastSlot, ts)
		c.setU64(timeOfTwapInitSlot, now)
		c.db.SetBool(c.addr, twapInitializedSlot, true)
		c.db.AddLog(c.addr, TwapInitializedEvent{PriceCumulative: cum, BlockTimestamp: ts, TimeOfTwapInit: now})
		log.Info("Initialized TWAP", "priceCumulative", cum, "blockTimestamp", ts, "time", now)
		return nil
	})
}

// ActivateRebasing enables rebases once the delay after InitTwap has passed.
// Calling it again later has no effect.
func (c *Controller) ActivateRebasing() error {
	return c.db.Atomic(func() error {
		if !c.db.GetBool(c.addr, twapInitializedSlot) {
			return ErrNotInitialized
		}
		now := c.chain.Time()
		if now < c.getU64(timeOfTwapInitSlot)+c.getU64(rebaseDelaySecSlot) {
			return ErrDelayNotElapsed
		}
		if c.db.GetBool(c.addr, rebasingActiveSlot) {
			return nil
		}
		c.db.SetBool(c.addr, rebasingActiveSlot, true)
		c.db.AddLog(c.addr, RebasingActivatedEvent{Time: now})
		log.Info("Activated rebasing", "time", now)
		return nil
	})
}

// InRebaseWindow reports whether a rebase may run now, failing with the reason
// when it may not.
func (c *Controller) InRebaseWindow() (bool, error) {
	if err := c.inRebaseWindow(c.chain.Time()); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Controller) inRebaseWindow(now uint64) error {
	if !c.db.GetBool(c.addr, rebasingActiveSlot) {
		return ErrRebasingNotActive
	}
	t := c.ReadTiming()
	elapsed := now % t.MinRebaseTimeIntervalSec
	if elapsed < t.RebaseWindowOffsetSec {
		return ErrTooEarly
	}
	if elapsed >= t.RebaseWindowOffsetSec+t.RebaseWindowLengthSec {
		return ErrTooLate
	}
	return nil
}

// Rebase samples the TWAP, updates the counters and target price, and pushes
// the new emission rate and circuit breaker flag into the pot. At most one
// rebase succeeds per window.
func (c *Controller) Rebase(caller common.Address) error {
	start := time.Now()
	err := c.db.Atomic(func() error { return c.rebase(caller) })
	if err == nil {
		rebaseMeter.Mark(1)
		rebaseTimer.UpdateSince(start)
	}
	return err
}

func (c *Controller) rebase(caller common.Address) error {
	// Validation phase (no state writes).
	now := c.chain.Time()
	if err := c.inRebaseWindow(now); err != nil {
		return err
	}
	timing := c.ReadTiming()
	windowFloor := now - now%timing.MinRebaseTimeIntervalSec + timing.RebaseWindowOffsetSec
	st := c.ReadState()
	if st.Epoch > 0 {
		if st.LastRebaseTimestamp >= windowFloor {
			return ErrAlreadyTriggered
		}
		// A window moved by a timing change must not allow two rebases
		// within one interval.
		if now < st.LastRebaseTimestamp+timing.MinRebaseTimeIntervalSec-timing.RebaseWindowLengthSec {
			return ErrIntervalNotElapsed
		}
	}
	cum, ts, twap, err := c.currentTwap()
	if err != nil {
		return err
	}
	// Emission is priced against the target in effect when the rebase began.
	base, farm, halving, err := c.newHotpotBasePerBlock(twap)
	if err != nil {
		return err
	}
	within, err := c.withinDeviationThreshold(twap)
	if err != nil {
		return err
	}

	// Mutation phase.
	th := c.ReadThresholds()
	target := st.TargetPrice
	up, down := st.UpwardCounter, st.DownwardCounter
	breaker := false
	switch {
	case within:
		up, down = 0, 0
	case twap.Gt(target):
		up, down = up+1, 0
		if up >= th.RetargetThreshold {
			if target, err = c.moveTarget(target, th.DeviationMovement, true); err != nil {
				return err
			}
			up = 0
		}
	default:
		up, down = 0, down+1
		if down >= th.RetargetThreshold {
			if target, err = c.moveTarget(target, th.DeviationMovement, false); err != nil {
				return err
			}
			down = 0
		}
		breaker = true
	}
	if err := c.pot.SetHotpotBasePerBlock(c.addr, base); err != nil {
		return err
	}
	if err := c.pot.SetCircuitBreaker(c.addr, breaker); err != nil {
		return err
	}
	if halving > st.HalvingCounter {
		log.Info("Emission halved", "halvingCounter", halving, "farmHotpotBasePerBlock", farm, "block", c.chain.BlockNumber())
	}
	epoch := st.Epoch + 1
	c.setU64(upwardCounterSlot, up)
	c.setU64(downwardCounterSlot, down)
	c.setU64(epochSlot, epoch)
	c.setU64(lastRebaseTimestampSlot, windowFloor)
	c.setU256(priceCumulativeLastSlot, cum)
	c.setU64(blockTimestampLastSlot, ts)
	c.setU256(farmHotpotBasePerBlockSlot, farm)
	c.setU64(halvingCounterSlot, halving)

	c.db.AddLog(c.addr, RebaseEvent{
		Epoch:                  epoch,
		Caller:                 caller,
		Twap:                   twap,
		TargetPrice:            target,
		HotpotBasePerBlock:     base,
		FarmHotpotBasePerBlock: farm,
		HalvingCounter:         halving,
		UpwardCounter:          up,
		DownwardCounter:        down,
		InCircuitBreaker:       breaker,
	})
	epochGauge.Update(int64(epoch))
	halvingGauge.Update(int64(halving))
	twapGauge.Update(twap.Float64() / 1e18)
	emissionsGauge.Update(base.Float64() / 1e18)
	log.Info("Rebased", "epoch", epoch, "twap", twap, "targetPrice", target, "hotpotBasePerBlock", base,
		"up", up, "down", down, "circuitBreaker", breaker)
	return nil
}

// moveTarget raises or lowers the target price by movement and records it.
func (c *Controller) moveTarget(target, movement *uint256.Int, raise bool) (*uint256.Int, error) {
	next, err := scaleByDeviation(target, movement, raise)
	if err != nil {
		return nil, err
	}
	c.setU256(targetPriceSlot, next)
	c.db.AddLog(c.addr, NewTargetPriceEvent{Old: target, New: next})
	retargetMeter.Mark(1)
	log.Info("Retargeted price", "old", target, "new", next)
	return next, nil
}
