// Package potapi provides the pot_* and rebase_* query namespaces for hotpot.
package potapi

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/staking"
)

// PotAPI implements the pot_* namespace.
type PotAPI struct {
	pot *staking.Pot
}

// NewPotAPI creates a PotAPI over pot. The pot's state should not be mutated
// concurrently with queries; callers serialize access through the executor.
func NewPotAPI(pot *staking.Pot) *PotAPI {
	return &PotAPI{pot: pot}
}

// PoolLength returns the number of pools.
func (a *PotAPI) PoolLength(_ context.Context) uint64 {
	return a.pot.PoolLength()
}

// PoolInfo returns pool pid.
func (a *PotAPI) PoolInfo(_ context.Context, pid uint64) (*staking.PoolInfo, error) {
	info, err := a.pot.PoolInfo(pid)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// UserInfo returns the position of user in pool pid.
func (a *PotAPI) UserInfo(_ context.Context, pid uint64, user common.Address) (*staking.UserInfo, error) {
	info, err := a.pot.UserInfo(pid, user)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Earned returns the reward user could claim from pool pid now.
func (a *PotAPI) Earned(_ context.Context, pid uint64, user common.Address) (*uint256.Int, error) {
	return a.pot.Earned(pid, user)
}

// TotalDeposited returns the deposit token balance held for pool pid.
func (a *PotAPI) TotalDeposited(_ context.Context, pid uint64) (*uint256.Int, error) {
	return a.pot.TotalDeposited(pid)
}

// Emission returns the emission rate, tip rate, red share and breaker flag.
func (a *PotAPI) Emission(_ context.Context) staking.Emission {
	return a.pot.Emission()
}

// TotalAllocPoint returns the summed pool weight of one category.
func (a *PotAPI) TotalAllocPoint(_ context.Context, isRed bool) uint64 {
	return a.pot.TotalAllocPoint(isRed)
}
