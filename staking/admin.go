package staking

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/fixedpoint"
	"github.com/hotpot-network/hotpot/params"
)

// AddPool appends a pool for deposit token tok. Owner only. With withUpdate set
// every existing pool is settled first, so the category weight change does not
// reprice blocks already elapsed.
func (p *Pot) AddPool(caller common.Address, allocPoint uint64, tok common.Address, isRed, withUpdate bool) error {
	return p.db.Atomic(func() error {
		if err := p.owner.Require(caller); err != nil {
			return err
		}
		if tok == (common.Address{}) {
			return ErrZeroToken
		}
		if _, exists := p.getTokenPool(tok); exists {
			return ErrDuplicatePool
		}
		total, err := fixedpoint.AddUint64(p.getTotalAllocPoint(isRed), allocPoint)
		if err != nil {
			return err
		}
		if withUpdate {
			if err := p.massUpdatePools(); err != nil {
				return err
			}
		}
		lastRewardBlock := p.chain.BlockNumber()
		if start := p.getStartBlock(); lastRewardBlock < start {
			lastRewardBlock = start
		}
		pid := p.getPoolLength()
		p.setPoolToken(pid, tok)
		p.setPoolAllocPoint(pid, allocPoint)
		p.setPoolIsRed(pid, isRed)
		p.setPoolLastRewardBlock(pid, lastRewardBlock)
		p.setPoolAccRewardPerShare(pid, new(uint256.Int))
		p.setTokenPool(tok, pid)
		p.setPoolLength(pid + 1)
		p.setTotalAllocPoint(isRed, total)

		p.db.AddLog(p.addr, PoolAddedEvent{Pid: pid, Token: tok, AllocPoint: allocPoint, IsRed: isRed})
		poolCountGauge.Update(int64(pid + 1))
		log.Info("Added staking pool", "pid", pid, "token", tok, "allocPoint", allocPoint,
			"category", category(isRed), "lastRewardBlock", lastRewardBlock)
		return nil
	})
}

// SetPool changes the weight of pool pid. Owner only. An out-of-range pid is
// accepted and ignored.
func (p *Pot) SetPool(caller common.Address, pid uint64, allocPoint uint64, withUpdate bool) error {
	return p.db.Atomic(func() error {
		if err := p.owner.Require(caller); err != nil {
			return err
		}
		if pid >= p.getPoolLength() {
			log.Debug("staking: setPool on unknown pool ignored", "pid", pid)
			return nil
		}
		if withUpdate {
			if err := p.massUpdatePools(); err != nil {
				return err
			}
		}
		isRed := p.getPoolIsRed(pid)
		old := p.getPoolAllocPoint(pid)
		total, err := fixedpoint.AddUint64(p.getTotalAllocPoint(isRed)-old, allocPoint)
		if err != nil {
			return err
		}
		p.setTotalAllocPoint(isRed, total)
		p.setPoolAllocPoint(pid, allocPoint)

		p.db.AddLog(p.addr, PoolSetEvent{Pid: pid, OldAllocPoint: old, NewAllocPoint: allocPoint})
		log.Info("Updated staking pool weight", "pid", pid, "old", old, "new", allocPoint, "category", category(isRed))
		return nil
	})
}

// SetCircuitBreaker sets or clears the flag that halts claims. Owner only.
func (p *Pot) SetCircuitBreaker(caller common.Address, enabled bool) error {
	return p.db.Atomic(func() error {
		if err := p.owner.Require(caller); err != nil {
			return err
		}
		old := p.getInCircuitBreaker()
		p.setInCircuitBreaker(enabled)
		p.db.AddLog(p.addr, NewCircuitBreakerEvent{Old: old, New: enabled})

		if enabled {
			breakerGauge.Update(1)
		} else {
			breakerGauge.Update(0)
		}
		if enabled && !old {
			log.Warn("Circuit breaker tripped, claims halted", "pot", p.addr)
		} else if !enabled && old {
			log.Info("Circuit breaker cleared", "pot", p.addr)
		}
		return nil
	})
}

// SetHotpotBasePerBlock changes the emission rate. Owner only. All pools are
// settled at the old rate first.
func (p *Pot) SetHotpotBasePerBlock(caller common.Address, rate *uint256.Int) error {
	if rate == nil {
		return ErrNilEmissionParam
	}
	return p.db.Atomic(func() error {
		if err := p.owner.Require(caller); err != nil {
			return err
		}
		if err := p.massUpdatePools(); err != nil {
			return err
		}
		old := p.getHotpotBasePerBlock()
		p.setHotpotBasePerBlock(rate)
		p.db.AddLog(p.addr, NewHotpotBasePerBlockEvent{Old: old, New: rate.Clone()})
		log.Debug("staking: new emission rate", "old", old, "new", rate)
		return nil
	})
}

// SetTipRate changes the fraction of each claim paid to the waiter. Owner only.
func (p *Pot) SetTipRate(caller common.Address, tipRate *uint256.Int) error {
	if tipRate == nil {
		return ErrNilEmissionParam
	}
	return p.db.Atomic(func() error {
		if err := p.owner.Require(caller); err != nil {
			return err
		}
		if tipRate.Gt(params.MaxTipRate) {
			return ErrTipRateTooHigh
		}
		old := p.getTipRate()
		p.setTipRate(tipRate)
		p.db.AddLog(p.addr, NewTipRateEvent{Old: old, New: tipRate.Clone()})
		log.Info("Updated tip rate", "old", old, "new", tipRate)
		return nil
	})
}

// SetRedPotShare changes the fraction of emission routed to red pools. Owner
// only. All pools are settled at the old split first.
func (p *Pot) SetRedPotShare(caller common.Address, share *uint256.Int) error {
	if share == nil {
		return ErrNilEmissionParam
	}
	return p.db.Atomic(func() error {
		if err := p.owner.Require(caller); err != nil {
			return err
		}
		if share.Gt(params.MaxRedPotShare) {
			return ErrRedShareTooHigh
		}
		if err := p.massUpdatePools(); err != nil {
			return err
		}
		old := p.getRedPotShare()
		p.setRedPotShare(share)
		p.db.AddLog(p.addr, NewRedPotShareEvent{Old: old, New: share.Clone()})
		log.Info("Updated red pot share", "old", old, "new", share)
		return nil
	})
}

// Dev hands the dev role to newDev. Only the current dev may call it.
func (p *Pot) Dev(caller, newDev common.Address) error {
	return p.db.Atomic(func() error {
		old := p.getDev()
		if caller != old {
			return ErrNotDev
		}
		p.setDev(newDev)
		p.db.AddLog(p.addr, NewDevEvent{Old: old, New: newDev})
		log.Info("Updated dev address", "old", old, "new", newDev)
		return nil
	})
}

// TransferPotOwnership hands the owner role to newOwner. Owner only.
func (p *Pot) TransferPotOwnership(caller, newOwner common.Address) error {
	return p.db.Atomic(func() error {
		return p.owner.Transfer(caller, newOwner)
	})
}
