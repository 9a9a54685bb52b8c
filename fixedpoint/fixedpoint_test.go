package fixedpoint

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
)

var maxU256 = new(uint256.Int).SetAllOne()

func TestAddOverflow(t *testing.T) {
	if _, err := Add(maxU256, uint256.NewInt(1)); !errors.Is(err, errs.ErrArithmetic) {
		t.Fatalf("want ErrArithmetic, got %v", err)
	}
	z, err := Add(uint256.NewInt(2), uint256.NewInt(3))
	if err != nil || z.Uint64() != 5 {
		t.Fatalf("add: have %v (%v), want 5", z, err)
	}
}

func TestSubUnderflow(t *testing.T) {
	if _, err := Sub(uint256.NewInt(1), uint256.NewInt(2)); !errors.Is(err, errs.ErrArithmetic) {
		t.Fatalf("want ErrArithmetic, got %v", err)
	}
}

func TestMulDivWideIntermediate(t *testing.T) {
	// maxU256 * 4 overflows 256 bits but the quotient by 8 does not.
	z, err := MulDiv(maxU256, uint256.NewInt(4), uint256.NewInt(8))
	if err != nil {
		t.Fatalf("muldiv: %v", err)
	}
	want := new(uint256.Int).Rsh(maxU256, 1)
	if !z.Eq(want) {
		t.Fatalf("muldiv: have %s want %s", z.Dec(), want.Dec())
	}
	if _, err := MulDiv(maxU256, uint256.NewInt(4), uint256.NewInt(2)); !errors.Is(err, errs.ErrArithmetic) {
		t.Fatalf("want overflow, got %v", err)
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(uint256.NewInt(1), new(uint256.Int)); !errors.Is(err, errs.ErrArithmetic) {
		t.Fatalf("div: want ErrArithmetic, got %v", err)
	}
	if _, err := MulDiv(uint256.NewInt(1), uint256.NewInt(1), new(uint256.Int)); !errors.Is(err, errs.ErrArithmetic) {
		t.Fatalf("muldiv: want ErrArithmetic, got %v", err)
	}
}

func TestOperandsNotMutated(t *testing.T) {
	x, y := uint256.NewInt(7), uint256.NewInt(3)
	if _, err := Mul(x, y); err != nil {
		t.Fatal(err)
	}
	if x.Uint64() != 7 || y.Uint64() != 3 {
		t.Fatalf("operands mutated: x=%d y=%d", x.Uint64(), y.Uint64())
	}
}

func TestAddUint64(t *testing.T) {
	if _, err := AddUint64(^uint64(0), 1); err == nil {
		t.Fatal("expected overflow")
	}
	if v, err := AddUint64(40, 2); err != nil || v != 42 {
		t.Fatalf("have %d (%v)", v, err)
	}
}
