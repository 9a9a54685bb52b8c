package staking

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
)

var (
	ErrAlreadyDeployed  = fmt.Errorf("%w: pot: already deployed", errs.ErrPreconditionNotMet)
	ErrUnknownPool      = fmt.Errorf("%w: pot: unknown pool", errs.ErrInvalidParameter)
	ErrZeroToken        = fmt.Errorf("%w: addPool: zero token", errs.ErrInvalidParameter)
	ErrDuplicatePool    = fmt.Errorf("%w: addPool: token already has a pool", errs.ErrInvalidParameter)
	ErrWithdrawTooMuch  = fmt.Errorf("%w: withdraw: not good", errs.ErrInsufficientBalance)
	ErrCircuitBreaker   = fmt.Errorf("%w: claimReward: halted during Circuit Breaker", errs.ErrCircuitBreakerActive)
	ErrTipRateTooHigh   = fmt.Errorf("%w: tipRate: too high", errs.ErrInvalidParameter)
	ErrRedShareTooHigh  = fmt.Errorf("%w: redPotShare: too high", errs.ErrInvalidParameter)
	ErrNotDev           = fmt.Errorf("%w: dev: wut?", errs.ErrAccessControl)
	ErrZeroRewardToken  = fmt.Errorf("%w: pot: zero reward token", errs.ErrInvalidParameter)
	ErrNilEmissionParam = fmt.Errorf("%w: pot: missing emission parameter", errs.ErrInvalidParameter)
)

// PoolInfo is the in-memory view of one reward pool read from the state.
type PoolInfo struct {
	Token             common.Address // deposit token
	AllocPoint        uint64         // weight within the pool's category
	IsRed             bool
	LastRewardBlock   uint64
	AccRewardPerShare *uint256.Int // scaled by params.RewardScale
}

// UserInfo tracks one depositor in one pool.
type UserInfo struct {
	Amount       *uint256.Int
	Reward       *uint256.Int // settled, not yet claimed
	RewardOffset *uint256.Int // Amount x AccRewardPerShare / RewardScale at the last settlement
}

// Emission holds the pot-wide emission parameters.
type Emission struct {
	HotpotBasePerBlock *uint256.Int
	TipRate            *uint256.Int // fraction of each claim paid to the waiter, scaled by params.ShareScale
	RedPotShare        *uint256.Int // fraction of emission routed to red pools, scaled by params.ShareScale
	InCircuitBreaker   bool
}

// category returns the human-readable category name, for logs.
func category(isRed bool) string {
	if isRed {
		return "red"
	}
	return "white"
}
