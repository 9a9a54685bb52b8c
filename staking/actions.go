package staking

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/fixedpoint"
	"github.com/hotpot-network/hotpot/params"
	"github.com/hotpot-network/hotpot/token"
)

// Deposit moves amount of the pool's deposit token from caller into the pot.
// The pot must hold an allowance from caller on that token. A zero amount only
// settles the caller's reward.
func (p *Pot) Deposit(caller common.Address, pid uint64, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	return p.db.Atomic(func() error {
		if pid >= p.getPoolLength() {
			return ErrUnknownPool
		}
		if err := p.updatePool(pid); err != nil {
			return err
		}
		acc, err := p.settleUser(pid, caller)
		if err != nil {
			return err
		}
		if !amount.IsZero() {
			lp := token.At(p.db, p.getPoolToken(pid))
			if err := lp.TransferFrom(p.addr, caller, p.addr, amount); err != nil {
				return fmt.Errorf("deposit: %w", err)
			}
			total, err := fixedpoint.Add(p.getUserAmount(pid, caller), amount)
			if err != nil {
				return err
			}
			p.setUserAmount(pid, caller, total)
		}
		if err := p.resetOffset(pid, caller, acc); err != nil {
			return err
		}
		p.db.AddLog(p.addr, DepositEvent{User: caller, Pid: pid, Amount: amount.Clone()})
		depositMeter.Mark(1)
		log.Debug("staking: deposit", "pid", pid, "user", caller, "amount", amount)
		return nil
	})
}

// Withdraw returns amount of the pool's deposit token to caller.
func (p *Pot) Withdraw(caller common.Address, pid uint64, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	return p.db.Atomic(func() error {
		if pid >= p.getPoolLength() {
			return ErrUnknownPool
		}
		// Validation phase (no state writes).
		balance := p.getUserAmount(pid, caller)
		if amount.Gt(balance) {
			return ErrWithdrawTooMuch
		}

		// Mutation phase.
		if err := p.updatePool(pid); err != nil {
			return err
		}
		acc, err := p.settleUser(pid, caller)
		if err != nil {
			return err
		}
		if !amount.IsZero() {
			p.setUserAmount(pid, caller, new(uint256.Int).Sub(balance, amount))
			lp := token.At(p.db, p.getPoolToken(pid))
			if err := lp.Transfer(p.addr, caller, amount); err != nil {
				return fmt.Errorf("withdraw: %w", err)
			}
		}
		if err := p.resetOffset(pid, caller, acc); err != nil {
			return err
		}
		p.db.AddLog(p.addr, WithdrawEvent{User: caller, Pid: pid, Amount: amount.Clone()})
		withdrawMeter.Mark(1)
		log.Debug("staking: withdraw", "pid", pid, "user", caller, "amount", amount)
		return nil
	})
}

// ClaimReward settles pool pid and mints caller's whole reward, split three
// ways: tipRate to waiter, params.DevShare to the dev address and the remainder
// to caller. Fails while the circuit breaker is set.
func (p *Pot) ClaimReward(caller common.Address, pid uint64, waiter common.Address) error {
	return p.db.Atomic(func() error {
		if p.getInCircuitBreaker() {
			return ErrCircuitBreaker
		}
		if pid >= p.getPoolLength() {
			return ErrUnknownPool
		}
		if err := p.updatePool(pid); err != nil {
			return err
		}
		acc, err := p.settleUser(pid, caller)
		if err != nil {
			return err
		}
		if err := p.resetOffset(pid, caller, acc); err != nil {
			return err
		}
		reward := p.getUserReward(pid, caller)
		tip, err := fixedpoint.MulDiv(reward, p.getTipRate(), params.ShareScale)
		if err != nil {
			return err
		}
		devCut, err := fixedpoint.MulDiv(reward, params.DevShare, params.ShareScale)
		if err != nil {
			return err
		}
		rest, err := fixedpoint.Sub(reward, tip)
		if err == nil {
			rest, err = fixedpoint.Sub(rest, devCut)
		}
		if err != nil {
			return err
		}
		p.setUserReward(pid, caller, new(uint256.Int))

		base := p.baseToken()
		for _, payout := range []struct {
			to     common.Address
			amount *uint256.Int
		}{
			{waiter, tip},
			{p.getDev(), devCut},
			{caller, rest},
		} {
			if payout.amount.IsZero() {
				continue
			}
			if err := base.Mint(p.addr, payout.to, payout.amount); err != nil {
				return fmt.Errorf("claimReward: %w", err)
			}
		}
		p.db.AddLog(p.addr, ClaimRewardEvent{User: caller, Pid: pid, Waiter: waiter, Amount: reward})
		claimMeter.Mark(1)
		log.Debug("staking: claimed reward", "pid", pid, "user", caller, "waiter", waiter,
			"reward", reward, "tip", tip, "dev", devCut)
		return nil
	})
}

// EmergencyWithdraw returns caller's whole deposit without settling, forfeiting
// any unclaimed reward. Nothing is minted.
func (p *Pot) EmergencyWithdraw(caller common.Address, pid uint64) error {
	return p.db.Atomic(func() error {
		if pid >= p.getPoolLength() {
			return ErrUnknownPool
		}
		amount := p.getUserAmount(pid, caller)
		forfeited := p.getUserReward(pid, caller)

		p.setUserAmount(pid, caller, new(uint256.Int))
		p.setUserReward(pid, caller, new(uint256.Int))
		p.setUserRewardOffset(pid, caller, new(uint256.Int))
		if !amount.IsZero() {
			lp := token.At(p.db, p.getPoolToken(pid))
			if err := lp.Transfer(p.addr, caller, amount); err != nil {
				return fmt.Errorf("emergencyWithdraw: %w", err)
			}
		}
		p.db.AddLog(p.addr, EmergencyWithdrawEvent{User: caller, Pid: pid, Amount: amount})
		emergencyWithdrawMeter.Mark(1)
		log.Warn("Emergency withdrawal", "pid", pid, "user", caller, "amount", amount, "forfeited", forfeited)
		return nil
	})
}
