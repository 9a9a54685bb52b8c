// Package fixedpoint implements overflow-checked arithmetic on 256-bit unsigned
// scaled integers.
//
// Protocol quantities carry an implicit decimal scale: prices and price
// fractions use 1e18 (see params.PriceScale), reward-per-share and emission
// shares use 1e12 (params.RewardScale, params.ShareScale). None of the helpers
// mutate their operands; each returns a freshly allocated result.
package fixedpoint

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
)

var (
	errOverflow  = fmt.Errorf("%w: uint256 overflow", errs.ErrArithmetic)
	errUnderflow = fmt.Errorf("%w: uint256 underflow", errs.ErrArithmetic)
	errDivByZero = fmt.Errorf("%w: division by zero", errs.ErrArithmetic)
)

// Add returns x + y.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, errOverflow
	}
	return z, nil
}

// Sub returns x - y, failing if y > x.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, errUnderflow
	}
	return z, nil
}

// Mul returns x * y.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, errOverflow
	}
	return z, nil
}

// Div returns floor(x / d).
func Div(x, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, errDivByZero
	}
	return new(uint256.Int).Div(x, d), nil
}

// MulDiv returns floor(x * y / d). The intermediate product is computed at
// 512-bit width, so only a result that does not fit 256 bits overflows.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, errDivByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, errOverflow
	}
	return z, nil
}

// AddUint64 returns x + y for block counters and timestamps.
func AddUint64(x, y uint64) (uint64, error) {
	if x > ^uint64(0)-y {
		return 0, errOverflow
	}
	return x + y, nil
}
