package staking

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/fixedpoint"
	"github.com/hotpot-network/hotpot/params"
)

// GetPoolHotpotBaseReward returns the emission pool pid earns over the blocks
// (from, to] at the current rate:
//
//	blocks * hotpotBasePerBlock * categoryShare / ShareScale * allocPoint / categoryTotal
func (p *Pot) GetPoolHotpotBaseReward(pid uint64, to, from uint64) (*uint256.Int, error) {
	if pid >= p.getPoolLength() {
		return nil, ErrUnknownPool
	}
	return p.poolReward(pid, to, from)
}

func (p *Pot) poolReward(pid uint64, to, from uint64) (*uint256.Int, error) {
	if to <= from {
		return new(uint256.Int), nil
	}
	isRed := p.getPoolIsRed(pid)
	total := p.getTotalAllocPoint(isRed)
	if total == 0 {
		return new(uint256.Int), nil
	}
	reward, err := fixedpoint.Mul(uint256.NewInt(to-from), p.getHotpotBasePerBlock())
	if err != nil {
		return nil, err
	}
	share := p.getRedPotShare()
	if !isRed {
		share = new(uint256.Int).Sub(params.ShareScale, share)
	}
	if reward, err = fixedpoint.MulDiv(reward, share, params.ShareScale); err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(reward, uint256.NewInt(p.getPoolAllocPoint(pid)), uint256.NewInt(total))
}

// pendingAccRewardPerShare returns the accRewardPerShare pool pid would have
// after settling up to the current block, without writing it.
func (p *Pot) pendingAccRewardPerShare(pid uint64) (acc *uint256.Int, settled bool, err error) {
	acc = p.getPoolAccRewardPerShare(pid)
	last := p.getPoolLastRewardBlock(pid)
	block := p.chain.BlockNumber()
	if block <= last {
		return acc, false, nil
	}
	supply := p.poolSupply(pid)
	if supply.IsZero() {
		return acc, true, nil
	}
	reward, err := p.poolReward(pid, block, last)
	if err != nil {
		return nil, false, err
	}
	delta, err := fixedpoint.MulDiv(reward, params.RewardScale, supply)
	if err != nil {
		return nil, false, err
	}
	acc, err = fixedpoint.Add(acc, delta)
	return acc, true, err
}

// updatePool brings pool pid up to the current block.
func (p *Pot) updatePool(pid uint64) error {
	acc, settled, err := p.pendingAccRewardPerShare(pid)
	if err != nil || !settled {
		return err
	}
	block := p.chain.BlockNumber()
	p.setPoolAccRewardPerShare(pid, acc)
	p.setPoolLastRewardBlock(pid, block)
	poolUpdateMeter.Mark(1)
	log.Trace("staking: updated pool", "pid", pid, "block", block, "accRewardPerShare", acc)
	return nil
}

// UpdatePool settles pool pid up to the current block. Calling it again in the
// same block is a no-op.
func (p *Pot) UpdatePool(pid uint64) error {
	if pid >= p.getPoolLength() {
		return ErrUnknownPool
	}
	return p.db.Atomic(func() error {
		return p.updatePool(pid)
	})
}

func (p *Pot) massUpdatePools() error {
	n := p.getPoolLength()
	for pid := uint64(0); pid < n; pid++ {
		if err := p.updatePool(pid); err != nil {
			return err
		}
	}
	return nil
}

// MassUpdatePools settles every pool in ascending id order.
func (p *Pot) MassUpdatePools() error {
	return p.db.Atomic(p.massUpdatePools)
}

// accrued returns amount * acc / RewardScale.
func accrued(amount, acc *uint256.Int) (*uint256.Int, error) {
	return fixedpoint.MulDiv(amount, acc, params.RewardScale)
}

// Earned returns the reward user could claim from pool pid at the current block.
func (p *Pot) Earned(pid uint64, user common.Address) (*uint256.Int, error) {
	if pid >= p.getPoolLength() {
		return nil, ErrUnknownPool
	}
	acc, _, err := p.pendingAccRewardPerShare(pid)
	if err != nil {
		return nil, err
	}
	u := p.ReadUserInfo(pid, user)
	owed, err := accrued(u.Amount, acc)
	if err != nil {
		return nil, err
	}
	if owed, err = fixedpoint.Add(u.Reward, owed); err != nil {
		return nil, err
	}
	return fixedpoint.Sub(owed, u.RewardOffset)
}

// settleUser folds what user accrued in the already updated pool pid into their
// reward and returns the pool's accRewardPerShare. The caller must reset the
// reward offset once the deposit amount is final.
func (p *Pot) settleUser(pid uint64, user common.Address) (*uint256.Int, error) {
	acc := p.getPoolAccRewardPerShare(pid)
	amount := p.getUserAmount(pid, user)
	if amount.IsZero() {
		return acc, nil
	}
	owed, err := accrued(amount, acc)
	if err != nil {
		return nil, err
	}
	if owed, err = fixedpoint.Sub(owed, p.getUserRewardOffset(pid, user)); err != nil {
		return nil, err
	}
	reward, err := fixedpoint.Add(p.getUserReward(pid, user), owed)
	if err != nil {
		return nil, err
	}
	p.setUserReward(pid, user, reward)
	log.Trace("staking: settled user", "pid", pid, "user", user, "owed", owed, "reward", reward)
	return acc, nil
}

// resetOffset marks user as fully settled against acc at their current amount.
func (p *Pot) resetOffset(pid uint64, user common.Address, acc *uint256.Int) error {
	offset, err := accrued(p.getUserAmount(pid, user), acc)
	if err != nil {
		return err
	}
	p.setUserRewardOffset(pid, user, offset)
	return nil
}
