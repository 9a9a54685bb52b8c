package oracle

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/chain"
)

func e18(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1e18))
}

func TestManualObserve(t *testing.T) {
	m := NewManual(1000)
	if err := m.Observe(e18(1), 1100); err != nil {
		t.Fatal(err)
	}
	if err := m.Observe(e18(2), 1150); err != nil {
		t.Fatal(err)
	}
	cum, ts, err := m.CurrentCumulativePrice()
	if err != nil {
		t.Fatal(err)
	}
	// 1.0 for 100s then 2.0 for 50s.
	if ts != 1150 || !cum.Eq(e18(200)) {
		t.Fatalf("have (%v, %d), want (%v, 1150)", cum, ts, e18(200))
	}
	if err := m.Observe(e18(1), 1149); err != ErrStaleObservation {
		t.Fatalf("stale observation: have %v", err)
	}
}

type testPair struct {
	cum0, cum1 *uint256.Int
	r0, r1     *uint256.Int
	last       uint32
}

func (p *testPair) Price0CumulativeLast() *uint256.Int { return p.cum0 }
func (p *testPair) Price1CumulativeLast() *uint256.Int { return p.cum1 }
func (p *testPair) GetReserves() (*uint256.Int, *uint256.Int, uint32) {
	return p.r0, p.r1, p.last
}

func TestPairAdapter(t *testing.T) {
	pair := &testPair{
		cum0: new(uint256.Int),
		cum1: new(uint256.Int),
		r0:   e18(4),
		r1:   e18(8),
		last: 100,
	}
	ctx := chain.NewManual(1, 200)

	// token0 trades at 2.0 token1; token1 at 0.5 token0.
	cum, ts, err := NewPairAdapter(pair, ctx, true).CurrentCumulativePrice()
	if err != nil {
		t.Fatal(err)
	}
	if ts != 200 || !cum.Eq(e18(200)) {
		t.Fatalf("token0: have (%v, %d), want (%v, 200)", cum, ts, e18(200))
	}
	cum, _, err = NewPairAdapter(pair, ctx, false).CurrentCumulativePrice()
	if err != nil {
		t.Fatal(err)
	}
	if !cum.Eq(e18(50)) {
		t.Fatalf("token1: have %v, want %v", cum, e18(50))
	}
}

func TestPairAdapterTimestampWrap(t *testing.T) {
	pair := &testPair{
		cum0: new(uint256.Int),
		cum1: new(uint256.Int),
		r0:   e18(1),
		r1:   e18(1),
		last: ^uint32(0) - 9,
	}
	ctx := chain.NewManual(1, 1<<32+90)

	cum, _, err := NewPairAdapter(pair, ctx, true).CurrentCumulativePrice()
	if err != nil {
		t.Fatal(err)
	}
	if !cum.Eq(e18(100)) {
		t.Fatalf("have %v, want %v", cum, e18(100))
	}
}

func TestPairAdapterSameBlock(t *testing.T) {
	stored := new(uint256.Int).Lsh(uint256.NewInt(3), 112)
	pair := &testPair{cum0: stored, cum1: new(uint256.Int), r0: e18(1), r1: e18(5), last: 500}
	ctx := chain.NewManual(1, 500)

	cum, _, err := NewPairAdapter(pair, ctx, true).CurrentCumulativePrice()
	if err != nil {
		t.Fatal(err)
	}
	if !cum.Eq(e18(3)) {
		t.Fatalf("have %v, want stored accumulator %v", cum, e18(3))
	}
}
