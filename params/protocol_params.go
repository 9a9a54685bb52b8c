// Copyright 2024 The hotpot Authors
// This file is part of the hotpot library.
//
// The hotpot library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The hotpot library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the hotpot library. If not, see <http://www.gnu.org/licenses/>.

package params

import "github.com/holiman/uint256"

// Fixed-point scales.
var (
	// PriceScale is the scale of prices and price fractions (1e18 == 1.0).
	PriceScale = uint256.NewInt(Hotpot)

	// RewardScale is the scale of a pool's accumulated reward per share.
	RewardScale = uint256.NewInt(1e12)

	// ShareScale is the denominator of tipRate, redPotShare and the dev cut.
	ShareScale = uint256.NewInt(1e12)
)

// Staking pot parameters.
var (
	// MaxTipRate bounds the fraction of each claim paid to the waiter so that
	// tip and dev cut never exceed the claimed reward.
	MaxTipRate = uint256.NewInt(1e12 - 1e11)

	// MaxRedPotShare bounds the fraction of emission routed to red pools.
	MaxRedPotShare = uint256.NewInt(1e12)

	// DefaultRedPotShare splits emission 50/50 between red and white pools.
	DefaultRedPotShare = uint256.NewInt(5e11)

	// DevShare is the fraction of every claimed reward minted to the dev address (10%).
	DevShare = uint256.NewInt(1e11)
)

// Rebase controller parameters.
const (
	// BlocksPerStock2FlowUnit scales targetStock2Flow into the halving interval:
	// the emission halves every targetStock2Flow*BlocksPerStock2FlowUnit blocks
	// after the pot's start block.
	BlocksPerStock2FlowUnit uint64 = 8888

	DefaultRetargetThreshold uint64 = 2  // Consecutive same-side rebases before the target moves.
	DefaultTargetStock2Flow  uint64 = 10 // Default halving interval multiplier.

	DefaultMinRebaseTimeIntervalSec uint64 = 86400 // One rebase per day.
	DefaultRebaseWindowOffsetSec    uint64 = 28800 // Window opens 08:00 UTC.
	DefaultRebaseWindowLengthSec    uint64 = 3600  // Window lasts one hour.
	DefaultRebaseDelaySec           uint64 = 43200 // Delay between initTwap and activation.
)

var (
	// DefaultDeviationThreshold is the half-width of the no-action band around the target (5%).
	DefaultDeviationThreshold = uint256.NewInt(5e16)

	// DefaultDeviationMovement is the step applied to the target price on retarget (5%).
	DefaultDeviationMovement = uint256.NewInt(5e16)

	// DefaultTargetPrice is 1.0 in PriceScale units.
	DefaultTargetPrice = uint256.NewInt(Hotpot)
)
