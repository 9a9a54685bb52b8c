// Package token implements the mintable fungible-token ledger the protocol
// mints emission into and accepts deposits in. Balances live in state slots of
// the token's address.
package token

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
	"github.com/hotpot-network/hotpot/fixedpoint"
	"github.com/hotpot-network/hotpot/roles"
	"github.com/hotpot-network/hotpot/state"
)

var (
	ErrAlreadyDeployed   = fmt.Errorf("%w: token: already deployed", errs.ErrPreconditionNotMet)
	ErrInvalidSymbol     = fmt.Errorf("%w: token: symbol must be 1 to 32 bytes", errs.ErrInvalidParameter)
	ErrZeroAddress       = fmt.Errorf("%w: token: zero address", errs.ErrInvalidParameter)
	ErrTransferExceeds   = fmt.Errorf("%w: transfer amount exceeds balance", errs.ErrInsufficientBalance)
	ErrAllowanceExceeded = fmt.Errorf("%w: transfer amount exceeds allowance", errs.ErrInsufficientBalance)
)

// TransferEvent is emitted for transfers and mints (From is zero).
type TransferEvent struct {
	From  common.Address
	To    common.Address
	Value *uint256.Int
}

// ApprovalEvent is emitted when an allowance is set.
type ApprovalEvent struct {
	Owner   common.Address
	Spender common.Address
	Value   *uint256.Int
}

var (
	symbolSlot      = common.BytesToHash(crypto.Keccak256([]byte("symbol")))
	totalSupplySlot = common.BytesToHash(crypto.Keccak256([]byte("totalSupply")))
)

func balanceSlot(holder common.Address) common.Hash {
	return common.BytesToHash(crypto.Keccak256(holder.Bytes(), []byte("balance")))
}

func allowanceSlot(owner, spender common.Address) common.Hash {
	return common.BytesToHash(crypto.Keccak256(owner.Bytes(), spender.Bytes(), []byte("allowance")))
}

// Ledger is a handle on the token deployed at an address.
type Ledger struct {
	db    *state.StateDB
	addr  common.Address
	owner *roles.Ownable
}

// At returns a handle on the token at addr.
func At(db *state.StateDB, addr common.Address) *Ledger {
	return &Ledger{db: db, addr: addr, owner: roles.NewOwnable(db, addr, "token")}
}

// Deploy creates a token at addr whose minter is owner.
func Deploy(db *state.StateDB, addr, owner common.Address, symbol string) (*Ledger, error) {
	if len(symbol) == 0 || len(symbol) > common.HashLength {
		return nil, ErrInvalidSymbol
	}
	l := At(db, addr)
	if l.db.GetState(addr, symbolSlot) != (common.Hash{}) {
		return nil, ErrAlreadyDeployed
	}
	err := db.Atomic(func() error {
		db.SetState(addr, symbolSlot, common.BytesToHash([]byte(symbol)))
		l.owner.Init(owner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Deployed token", "address", addr, "symbol", symbol, "owner", owner)
	return l, nil
}

func (l *Ledger) Address() common.Address { return l.addr }
func (l *Ledger) Owner() common.Address   { return l.owner.Owner() }

// Symbol returns the ticker the token was deployed with.
func (l *Ledger) Symbol() string {
	h := l.db.GetState(l.addr, symbolSlot)
	return string(common.TrimLeftZeroes(h[:]))
}

func (l *Ledger) TotalSupply() *uint256.Int {
	return l.db.GetU256(l.addr, totalSupplySlot)
}

func (l *Ledger) BalanceOf(holder common.Address) *uint256.Int {
	return l.db.GetU256(l.addr, balanceSlot(holder))
}

func (l *Ledger) Allowance(owner, spender common.Address) *uint256.Int {
	return l.db.GetU256(l.addr, allowanceSlot(owner, spender))
}

// Mint creates amount new tokens for to. Owner only.
func (l *Ledger) Mint(caller, to common.Address, amount *uint256.Int) error {
	return l.db.Atomic(func() error {
		if err := l.owner.Require(caller); err != nil {
			return err
		}
		if to == (common.Address{}) {
			return ErrZeroAddress
		}
		supply, err := fixedpoint.Add(l.TotalSupply(), amount)
		if err != nil {
			return err
		}
		bal, err := fixedpoint.Add(l.BalanceOf(to), amount)
		if err != nil {
			return err
		}
		l.db.SetU256(l.addr, totalSupplySlot, supply)
		l.db.SetU256(l.addr, balanceSlot(to), bal)
		l.db.AddLog(l.addr, TransferEvent{To: to, Value: amount.Clone()})
		log.Trace("token: minted", "token", l.addr, "to", to, "amount", amount)
		return nil
	})
}

// Transfer moves amount from from to to.
func (l *Ledger) Transfer(from, to common.Address, amount *uint256.Int) error {
	return l.db.Atomic(func() error {
		return l.transfer(from, to, amount)
	})
}

// Approve lets spender move up to amount of owner's tokens.
func (l *Ledger) Approve(owner, spender common.Address, amount *uint256.Int) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	return l.db.Atomic(func() error {
		l.db.SetU256(l.addr, allowanceSlot(owner, spender), amount)
		l.db.AddLog(l.addr, ApprovalEvent{Owner: owner, Spender: spender, Value: amount.Clone()})
		return nil
	})
}

// TransferFrom moves amount from from to to on behalf of spender. An allowance
// of 2^256-1 is treated as unlimited and never decreases.
func (l *Ledger) TransferFrom(spender, from, to common.Address, amount *uint256.Int) error {
	return l.db.Atomic(func() error {
		allowance := l.Allowance(from, spender)
		if !isInfinite(allowance) {
			left, err := fixedpoint.Sub(allowance, amount)
			if err != nil {
				return ErrAllowanceExceeded
			}
			l.db.SetU256(l.addr, allowanceSlot(from, spender), left)
		}
		return l.transfer(from, to, amount)
	})
}

// TransferOwnership hands the minter role to newOwner.
func (l *Ledger) TransferOwnership(caller, newOwner common.Address) error {
	return l.db.Atomic(func() error {
		return l.owner.Transfer(caller, newOwner)
	})
}

func (l *Ledger) transfer(from, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	fromBal, err := fixedpoint.Sub(l.BalanceOf(from), amount)
	if err != nil {
		return ErrTransferExceeds
	}
	l.db.SetU256(l.addr, balanceSlot(from), fromBal)
	toBal, err := fixedpoint.Add(l.BalanceOf(to), amount)
	if err != nil {
		return err
	}
	l.db.SetU256(l.addr, balanceSlot(to), toBal)
	l.db.AddLog(l.addr, TransferEvent{From: from, To: to, Value: amount.Clone()})
	return nil
}

func isInfinite(v *uint256.Int) bool {
	return v.Eq(new(uint256.Int).SetAllOne())
}
