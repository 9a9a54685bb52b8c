// Package staking implements the hotpot staking pot: an append-only list of
// reward pools split into a red and a white category, each paying its
// depositors a share of the per-block emission of the base token.
//
// Rewards use the accumulated-reward-per-share scheme. Every pool tracks the
// reward owed to one unit of deposit since genesis (scaled by
// params.RewardScale) and every depositor tracks the value of that product at
// their last settlement, so the owed delta is computed in O(1) no matter how
// often the emission rate changed in between. Every balance-changing operation
// settles its pool first.
package staking

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/chain"
	"github.com/hotpot-network/hotpot/params"
	"github.com/hotpot-network/hotpot/roles"
	"github.com/hotpot-network/hotpot/state"
	"github.com/hotpot-network/hotpot/token"
)

// Pot is a handle on the staking pot deployed at an address. All state lives
// in the StateDB; a Pot holds no state of its own.
type Pot struct {
	db    *state.StateDB
	chain chain.Context
	addr  common.Address
	owner *roles.Ownable
}

// At returns a handle on the pot at addr.
func At(db *state.StateDB, ctx chain.Context, addr common.Address) *Pot {
	return &Pot{
		db:    db,
		chain: ctx,
		addr:  addr,
		owner: roles.NewOwnable(db, addr, "pot"),
	}
}

// Deploy creates a pot at addr. The base token at cfg.HotpotBase must be owned
// by addr for claims to mint.
func Deploy(db *state.StateDB, ctx chain.Context, addr common.Address, cfg *params.PotConfig) (*Pot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.HotpotBase == (common.Address{}) {
		return nil, ErrZeroRewardToken
	}
	p := At(db, ctx, addr)
	if p.getHotpotBase() != (common.Address{}) {
		return nil, ErrAlreadyDeployed
	}
	redPotShare := params.DefaultRedPotShare
	if cfg.RedPotShare != nil {
		redPotShare = cfg.RedPotShare.Int()
	}
	err := db.Atomic(func() error {
		db.SetAddress(addr, hotpotBaseSlot, cfg.HotpotBase)
		db.SetUint64(addr, startBlockSlot, cfg.StartBlock)
		p.setHotpotBasePerBlock(cfg.HotpotBasePerBlock.Int())
		p.setTipRate(cfg.TipRate.Int())
		p.setRedPotShare(redPotShare)
		p.setDev(cfg.Dev)
		p.owner.Init(cfg.Owner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Deployed staking pot", "address", addr, "owner", cfg.Owner, "hotpotBase", cfg.HotpotBase,
		"hotpotBasePerBlock", cfg.HotpotBasePerBlock.Int(), "startBlock", cfg.StartBlock)
	return p, nil
}

func (p *Pot) Address() common.Address    { return p.addr }
func (p *Pot) Owner() common.Address      { return p.owner.Owner() }
func (p *Pot) DevAddr() common.Address    { return p.getDev() }
func (p *Pot) HotpotBase() common.Address { return p.getHotpotBase() }
func (p *Pot) StartBlock() uint64         { return p.getStartBlock() }
func (p *Pot) PoolLength() uint64         { return p.getPoolLength() }
func (p *Pot) Emission() Emission         { return p.ReadEmission() }

// TotalAllocPoint returns the summed weight of the red or white pools.
func (p *Pot) TotalAllocPoint(isRed bool) uint64 {
	return p.getTotalAllocPoint(isRed)
}

// PoolInfo returns pool pid.
func (p *Pot) PoolInfo(pid uint64) (PoolInfo, error) {
	if pid >= p.getPoolLength() {
		return PoolInfo{}, ErrUnknownPool
	}
	return p.ReadPoolInfo(pid), nil
}

// UserInfo returns the record of user in pool pid.
func (p *Pot) UserInfo(pid uint64, user common.Address) (UserInfo, error) {
	if pid >= p.getPoolLength() {
		return UserInfo{}, ErrUnknownPool
	}
	return p.ReadUserInfo(pid, user), nil
}

// TotalDeposited returns the deposit-token balance the pot holds for pool pid.
func (p *Pot) TotalDeposited(pid uint64) (*uint256.Int, error) {
	if pid >= p.getPoolLength() {
		return nil, ErrUnknownPool
	}
	return p.poolSupply(pid), nil
}

func (p *Pot) poolSupply(pid uint64) *uint256.Int {
	return token.At(p.db, p.getPoolToken(pid)).BalanceOf(p.addr)
}

func (p *Pot) baseToken() *token.Ledger {
	return token.At(p.db, p.getHotpotBase())
}
