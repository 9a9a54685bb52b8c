package rebase

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

func ctrlSlot(field string) common.Hash {
	return common.BytesToHash(crypto.Keccak256([]byte(field)))
}

var (
	epochSlot                    = ctrlSlot("epoch")
	lastRebaseTimestampSlot      = ctrlSlot("lastRebaseTimestamp")
	priceCumulativeLastSlot      = ctrlSlot("priceCumulativeLast")
	blockTimestampLastSlot       = ctrlSlot("blockTimestampLast")
	timeOfTwapInitSlot           = ctrlSlot("timeOfTwapInit")
	twapInitializedSlot          = ctrlSlot("twapInitialized")
	rebasingActiveSlot           = ctrlSlot("rebasingActive")
	targetPriceSlot              = ctrlSlot("targetPrice")
	upwardCounterSlot            = ctrlSlot("upwardCounter")
	downwardCounterSlot          = ctrlSlot("downwardCounter")
	halvingCounterSlot           = ctrlSlot("halvingCounter")
	farmHotpotBasePerBlockSlot   = ctrlSlot("farmHotpotBasePerBlock")
	deviationThresholdSlot       = ctrlSlot("deviationThreshold")
	deviationMovementSlot        = ctrlSlot("deviationMovement")
	retargetThresholdSlot        = ctrlSlot("retargetThreshold")
	targetStock2FlowSlot         = ctrlSlot("targetStock2Flow")
	minRebaseTimeIntervalSecSlot = ctrlSlot("minRebaseTimeIntervalSec")
	rebaseWindowOffsetSecSlot    = ctrlSlot("rebaseWindowOffsetSec")
	rebaseWindowLengthSecSlot    = ctrlSlot("rebaseWindowLengthSec")
	rebaseDelaySecSlot           = ctrlSlot("rebaseDelaySec")
)

func (c *Controller) getU64(slot common.Hash) uint64        { return c.db.GetUint64(c.addr, slot) }
func (c *Controller) setU64(slot common.Hash, v uint64)     { c.db.SetUint64(c.addr, slot, v) }
func (c *Controller) getU256(slot common.Hash) *uint256.Int { return c.db.GetU256(c.addr, slot) }
func (c *Controller) setU256(slot common.Hash, v *uint256.Int) {
	c.db.SetU256(c.addr, slot, v)
}

func (c *Controller) getTargetPrice() *uint256.Int { return c.getU256(targetPriceSlot) }

// ReadState reads the complete rebase state.
func (c *Controller) ReadState() State {
	return State{
		Epoch:                  c.getU64(epochSlot),
		LastRebaseTimestamp:    c.getU64(lastRebaseTimestampSlot),
		PriceCumulativeLast:    c.getU256(priceCumulativeLastSlot),
		BlockTimestampLast:     c.getU64(blockTimestampLastSlot),
		TimeOfTwapInit:         c.getU64(timeOfTwapInitSlot),
		TwapInitialized:        c.db.GetBool(c.addr, twapInitializedSlot),
		RebasingActive:         c.db.GetBool(c.addr, rebasingActiveSlot),
		TargetPrice:            c.getTargetPrice(),
		UpwardCounter:          c.getU64(upwardCounterSlot),
		DownwardCounter:        c.getU64(downwardCounterSlot),
		HalvingCounter:         c.getU64(halvingCounterSlot),
		FarmHotpotBasePerBlock: c.getU256(farmHotpotBasePerBlockSlot),
	}
}

// ReadThresholds reads the deviation and retarget parameters.
func (c *Controller) ReadThresholds() ThresholdConfig {
	return ThresholdConfig{
		DeviationThreshold: c.getU256(deviationThresholdSlot),
		DeviationMovement:  c.getU256(deviationMovementSlot),
		RetargetThreshold:  c.getU64(retargetThresholdSlot),
		TargetStock2Flow:   c.getU64(targetStock2FlowSlot),
	}
}

// ReadTiming reads the rebase schedule.
func (c *Controller) ReadTiming() TimingConfig {
	return TimingConfig{
		MinRebaseTimeIntervalSec: c.getU64(minRebaseTimeIntervalSecSlot),
		RebaseWindowOffsetSec:    c.getU64(rebaseWindowOffsetSecSlot),
		RebaseWindowLengthSec:    c.getU64(rebaseWindowLengthSecSlot),
		RebaseDelaySec:           c.getU64(rebaseDelaySecSlot),
	}
}

func (c *Controller) writeTiming(t TimingConfig) {
	c.setU64(minRebaseTimeIntervalSecSlot, t.MinRebaseTimeIntervalSec)
	c.setU64(rebaseWindowOffsetSecSlot, t.RebaseWindowOffsetSec)
	c.setU64(rebaseWindowLengthSecSlot, t.RebaseWindowLengthSec)
	c.setU64(rebaseDelaySecSlot, t.RebaseDelaySec)
}
