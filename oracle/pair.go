package oracle

import (
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/chain"
	"github.com/hotpot-network/hotpot/params"
)

// Pair is the observable state of a constant-product AMM pair that keeps
// UQ112x112 cumulative prices, as Uniswap v2 pairs do.
type Pair interface {
	Price0CumulativeLast() *uint256.Int
	Price1CumulativeLast() *uint256.Int
	GetReserves() (reserve0, reserve1 *uint256.Int, blockTimestampLast uint32)
}

// PairAdapter turns a Pair into a Source pricing one of its tokens in terms of
// the other. It extends the pair's stored accumulator to the current block
// time with the current reserves, so a pair that has not traded this block
// still yields an up-to-date cumulative price.
type PairAdapter struct {
	pair     Pair
	chain    chain.Context
	isToken0 bool // price token0 in token1 when set, token1 in token0 otherwise
}

// NewPairAdapter creates a Source over pair. isToken0 selects which side of the
// pair is the priced token.
func NewPairAdapter(pair Pair, ctx chain.Context, isToken0 bool) *PairAdapter {
	return &PairAdapter{pair: pair, chain: ctx, isToken0: isToken0}
}

var q112 = new(uint256.Int).Lsh(uint256.NewInt(1), 112)

// CurrentCumulativePrice implements Source.
func (a *PairAdapter) CurrentCumulativePrice() (*uint256.Int, uint64, error) {
	now := a.chain.Time()

	price0 := a.pair.Price0CumulativeLast().Clone()
	price1 := a.pair.Price1CumulativeLast().Clone()

	// Counterfactual accumulation since the last trade. Timestamps are mod 2^32
	// and the subtraction wraps the same way the pair's does.
	reserve0, reserve1, last := a.pair.GetReserves()
	if elapsed := uint32(now) - last; elapsed != 0 && !reserve0.IsZero() && !reserve1.IsZero() {
		secs := uint256.NewInt(uint64(elapsed))
		p0 := new(uint256.Int).Lsh(reserve1, 112)
		p0.Div(p0, reserve0)
		p1 := new(uint256.Int).Lsh(reserve0, 112)
		p1.Div(p1, reserve1)
		price0.Add(price0, p0.Mul(p0, secs))
		price1.Add(price1, p1.Mul(p1, secs))
	}

	cumulative := price1
	if a.isToken0 {
		cumulative = price0
	}
	// UQ112x112 to 1e18 fixed point.
	scaled, _ := new(uint256.Int).MulDivOverflow(cumulative, params.PriceScale, q112)
	return scaled, now, nil
}
