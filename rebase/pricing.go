package rebase

import (
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/fixedpoint"
	"github.com/hotpot-network/hotpot/params"
)

// GetCurrentTwap samples the oracle and returns the fresh cumulative price,
// its timestamp and the TWAP over the span since the last stored sample.
func (c *Controller) GetCurrentTwap() (cumulative *uint256.Int, timestamp uint64, twap *uint256.Int, err error) {
	return c.currentTwap()
}

func (c *Controller) currentTwap() (*uint256.Int, uint64, *uint256.Int, error) {
	cum, ts, err := c.oracle.CurrentCumulativePrice()
	if err != nil {
		return nil, 0, nil, err
	}
	lastTs := c.getU64(blockTimestampLastSlot)
	if ts <= lastTs {
		return nil, 0, nil, ErrNoElapsedTime
	}
	delta, err := fixedpoint.Sub(cum, c.getU256(priceCumulativeLastSlot))
	if err != nil {
		return nil, 0, nil, err
	}
	twap, err := fixedpoint.Div(delta, uint256.NewInt(ts-lastTs))
	if err != nil {
		return nil, 0, nil, err
	}
	return cum, ts, twap, nil
}

// WithinDeviationThreshold reports whether price lies strictly inside the
// no-action band around the target price.
func (c *Controller) WithinDeviationThreshold(price *uint256.Int) (bool, error) {
	return c.withinDeviationThreshold(price)
}

func (c *Controller) withinDeviationThreshold(price *uint256.Int) (bool, error) {
	target := c.getTargetPrice()
	d := c.getU256(deviationThresholdSlot)
	lower, err := scaleByDeviation(target, d, false)
	if err != nil {
		return false, err
	}
	upper, err := scaleByDeviation(target, d, true)
	if err != nil {
		return false, err
	}
	return price.Gt(lower) && price.Lt(upper), nil
}

// scaleByDeviation returns v*(1+d) or v*(1-d) for a 1e18 fraction d.
func scaleByDeviation(v, d *uint256.Int, up bool) (*uint256.Int, error) {
	var (
		factor *uint256.Int
		err    error
	)
	if up {
		factor, err = fixedpoint.Add(params.PriceScale, d)
	} else {
		factor, err = fixedpoint.Sub(params.PriceScale, d)
	}
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(v, factor, params.PriceScale)
}

// GetNewHotpotBasePerBlock returns the emission rate a rebase at price would
// push, the halving-adjusted farm rate it scales, and the halving counter.
// The rate grows with the distance between price and the target in either
// direction. Nothing is written.
func (c *Controller) GetNewHotpotBasePerBlock(price *uint256.Int) (base, farm *uint256.Int, halving uint64, err error) {
	return c.newHotpotBasePerBlock(price)
}

func (c *Controller) newHotpotBasePerBlock(price *uint256.Int) (*uint256.Int, *uint256.Int, uint64, error) {
	if price.IsZero() {
		return nil, nil, 0, ErrZeroPrice
	}
	farm := c.getU256(farmHotpotBasePerBlockSlot)
	halving := c.getU64(halvingCounterSlot)

	interval := c.getU64(targetStock2FlowSlot) * params.BlocksPerStock2FlowUnit
	start, now := c.pot.StartBlock(), c.chain.BlockNumber()
	if interval > 0 && now > start {
		if crossed := (now - start) / interval; crossed > halving {
			shift := crossed - halving
			if shift >= 256 {
				farm = new(uint256.Int)
			} else {
				farm = new(uint256.Int).Rsh(farm, uint(shift))
			}
			halving = crossed
		}
	}

	target := c.getTargetPrice()
	var (
		base *uint256.Int
		err  error
	)
	if price.Gt(target) {
		base, err = fixedpoint.MulDiv(farm, price, target)
	} else {
		base, err = fixedpoint.MulDiv(farm, target, price)
	}
	if err != nil {
		return nil, nil, 0, err
	}
	return base, farm, halving, nil
}

// GetNewRedShare returns the share of emission, in params.ShareScale units,
// that red pools should receive at price. It is target/(target+price): one
// half at the target, more below it, less above it.
func (c *Controller) GetNewRedShare(price *uint256.Int) (*uint256.Int, error) {
	target := c.getTargetPrice()
	sum, err := fixedpoint.Add(target, price)
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(params.ShareScale, target, sum)
}
