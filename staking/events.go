package staking

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type DepositEvent struct {
	User   common.Address
	Pid    uint64
	Amount *uint256.Int
}

type WithdrawEvent struct {
	User   common.Address
	Pid    uint64
	Amount *uint256.Int
}

// ClaimRewardEvent carries the whole claimed reward, before the tip and dev cuts.
type ClaimRewardEvent struct {
	User   common.Address
	Pid    uint64
	Waiter common.Address
	Amount *uint256.Int
}

// EmergencyWithdrawEvent carries the deposit returned; any unclaimed reward is forfeited.
type EmergencyWithdrawEvent struct {
	User   common.Address
	Pid    uint64
	Amount *uint256.Int
}

type PoolAddedEvent struct {
	Pid        uint64
	Token      common.Address
	AllocPoint uint64
	IsRed      bool
}

type PoolSetEvent struct {
	Pid           uint64
	OldAllocPoint uint64
	NewAllocPoint uint64
}

type NewCircuitBreakerEvent struct {
	Old bool
	New bool
}

type NewHotpotBasePerBlockEvent struct {
	Old *uint256.Int
	New *uint256.Int
}

type NewTipRateEvent struct {
	Old *uint256.Int
	New *uint256.Int
}

type NewRedPotShareEvent struct {
	Old *uint256.Int
	New *uint256.Int
}

type NewDevEvent struct {
	Old common.Address
	New common.Address
}
