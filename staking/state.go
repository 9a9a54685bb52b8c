package staking

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// --- slot derivation ---

func potSlot(field string) common.Hash {
	return common.BytesToHash(crypto.Keccak256([]byte(field)))
}

func poolSlot(pid uint64, field string) common.Hash {
	key := binary.BigEndian.AppendUint64([]byte("pool"), pid)
	return common.BytesToHash(crypto.Keccak256(key, []byte(field)))
}

func userSlot(pid uint64, user common.Address, field string) common.Hash {
	key := binary.BigEndian.AppendUint64([]byte("user"), pid)
	return common.BytesToHash(crypto.Keccak256(key, user.Bytes(), []byte(field)))
}

// tokenPoolSlot maps a deposit token to its pool id plus one (zero: no pool).
func tokenPoolSlot(token common.Address) common.Hash {
	return common.BytesToHash(crypto.Keccak256(token.Bytes(), []byte("pid")))
}

var (
	hotpotBaseSlot           = potSlot("hotpotBase")
	hotpotBasePerBlockSlot   = potSlot("hotpotBasePerBlock")
	tipRateSlot              = potSlot("tipRate")
	redPotShareSlot          = potSlot("redPotShare")
	inCircuitBreakerSlot     = potSlot("inCircuitBreaker")
	devSlot                  = potSlot("dev")
	startBlockSlot           = potSlot("startBlock")
	poolLengthSlot           = potSlot("poolLength")
	totalRedAllocPointSlot   = potSlot("totalRedAllocPoint")
	totalWhiteAllocPointSlot = potSlot("totalWhiteAllocPoint")
)

// --- pot state ---

func (p *Pot) getHotpotBase() common.Address { return p.db.GetAddress(p.addr, hotpotBaseSlot) }
func (p *Pot) getDev() common.Address        { return p.db.GetAddress(p.addr, devSlot) }
func (p *Pot) setDev(dev common.Address)     { p.db.SetAddress(p.addr, devSlot, dev) }
func (p *Pot) getStartBlock() uint64         { return p.db.GetUint64(p.addr, startBlockSlot) }
func (p *Pot) getPoolLength() uint64         { return p.db.GetUint64(p.addr, poolLengthSlot) }
func (p *Pot) setPoolLength(n uint64)        { p.db.SetUint64(p.addr, poolLengthSlot, n) }

func (p *Pot) getHotpotBasePerBlock() *uint256.Int {
	return p.db.GetU256(p.addr, hotpotBasePerBlockSlot)
}

func (p *Pot) setHotpotBasePerBlock(v *uint256.Int) {
	p.db.SetU256(p.addr, hotpotBasePerBlockSlot, v)
}

func (p *Pot) getTipRate() *uint256.Int  { return p.db.GetU256(p.addr, tipRateSlot) }
func (p *Pot) setTipRate(v *uint256.Int) { p.db.SetU256(p.addr, tipRateSlot, v) }

func (p *Pot) getRedPotShare() *uint256.Int  { return p.db.GetU256(p.addr, redPotShareSlot) }
func (p *Pot) setRedPotShare(v *uint256.Int) { p.db.SetU256(p.addr, redPotShareSlot, v) }

func (p *Pot) getInCircuitBreaker() bool  { return p.db.GetBool(p.addr, inCircuitBreakerSlot) }
func (p *Pot) setInCircuitBreaker(v bool) { p.db.SetBool(p.addr, inCircuitBreakerSlot, v) }

func totalAllocPointSlot(isRed bool) common.Hash {
	if isRed {
		return totalRedAllocPointSlot
	}
	return totalWhiteAllocPointSlot
}

func (p *Pot) getTotalAllocPoint(isRed bool) uint64 {
	return p.db.GetUint64(p.addr, totalAllocPointSlot(isRed))
}

func (p *Pot) setTotalAllocPoint(isRed bool, v uint64) {
	p.db.SetUint64(p.addr, totalAllocPointSlot(isRed), v)
}

func (p *Pot) getTokenPool(token common.Address) (uint64, bool) {
	v := p.db.GetUint64(p.addr, tokenPoolSlot(token))
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

func (p *Pot) setTokenPool(token common.Address, pid uint64) {
	p.db.SetUint64(p.addr, tokenPoolSlot(token), pid+1)
}

// --- pool state ---

func (p *Pot) getPoolToken(pid uint64) common.Address {
	return p.db.GetAddress(p.addr, poolSlot(pid, "token"))
}

func (p *Pot) setPoolToken(pid uint64, token common.Address) {
	p.db.SetAddress(p.addr, poolSlot(pid, "token"), token)
}

func (p *Pot) getPoolAllocPoint(pid uint64) uint64 {
	return p.db.GetUint64(p.addr, poolSlot(pid, "allocPoint"))
}

func (p *Pot) setPoolAllocPoint(pid uint64, v uint64) {
	p.db.SetUint64(p.addr, poolSlot(pid, "allocPoint"), v)
}

func (p *Pot) getPoolIsRed(pid uint64) bool {
	return p.db.GetBool(p.addr, poolSlot(pid, "isRed"))
}

func (p *Pot) setPoolIsRed(pid uint64, v bool) {
	p.db.SetBool(p.addr, poolSlot(pid, "isRed"), v)
}

func (p *Pot) getPoolLastRewardBlock(pid uint64) uint64 {
	return p.db.GetUint64(p.addr, poolSlot(pid, "lastRewardBlock"))
}

func (p *Pot) setPoolLastRewardBlock(pid uint64, v uint64) {
	p.db.SetUint64(p.addr, poolSlot(pid, "lastRewardBlock"), v)
}

func (p *Pot) getPoolAccRewardPerShare(pid uint64) *uint256.Int {
	return p.db.GetU256(p.addr, poolSlot(pid, "accRewardPerShare"))
}

func (p *Pot) setPoolAccRewardPerShare(pid uint64, v *uint256.Int) {
	p.db.SetU256(p.addr, poolSlot(pid, "accRewardPerShare"), v)
}

// --- user state ---

func (p *Pot) getUserAmount(pid uint64, user common.Address) *uint256.Int {
	return p.db.GetU256(p.addr, userSlot(pid, user, "amount"))
}

func (p *Pot) setUserAmount(pid uint64, user common.Address, v *uint256.Int) {
	p.db.SetU256(p.addr, userSlot(pid, user, "amount"), v)
}

func (p *Pot) getUserReward(pid uint64, user common.Address) *uint256.Int {
	return p.db.GetU256(p.addr, userSlot(pid, user, "reward"))
}

func (p *Pot) setUserReward(pid uint64, user common.Address, v *uint256.Int) {
	p.db.SetU256(p.addr, userSlot(pid, user, "reward"), v)
}

func (p *Pot) getUserRewardOffset(pid uint64, user common.Address) *uint256.Int {
	return p.db.GetU256(p.addr, userSlot(pid, user, "rewardOffset"))
}

func (p *Pot) setUserRewardOffset(pid uint64, user common.Address, v *uint256.Int) {
	p.db.SetU256(p.addr, userSlot(pid, user, "rewardOffset"), v)
}

// ReadPoolInfo reads the complete PoolInfo of pid. Out-of-range ids read as
// the zero pool.
func (p *Pot) ReadPoolInfo(pid uint64) PoolInfo {
	return PoolInfo{
		Token:             p.getPoolToken(pid),
		AllocPoint:        p.getPoolAllocPoint(pid),
		IsRed:             p.getPoolIsRed(pid),
		LastRewardBlock:   p.getPoolLastRewardBlock(pid),
		AccRewardPerShare: p.getPoolAccRewardPerShare(pid),
	}
}

// ReadUserInfo reads the record of user in pool pid.
func (p *Pot) ReadUserInfo(pid uint64, user common.Address) UserInfo {
	return UserInfo{
		Amount:       p.getUserAmount(pid, user),
		Reward:       p.getUserReward(pid, user),
		RewardOffset: p.getUserRewardOffset(pid, user),
	}
}

// ReadEmission reads the pot-wide emission parameters.
func (p *Pot) ReadEmission() Emission {
	return Emission{
		HotpotBasePerBlock: p.getHotpotBasePerBlock(),
		TipRate:            p.getTipRate(),
		RedPotShare:        p.getRedPotShare(),
		InCircuitBreaker:   p.getInCircuitBreaker(),
	}
}
