package rebase

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
)

var (
	ErrAlreadyDeployed    = fmt.Errorf("%w: rebase: already deployed", errs.ErrPreconditionNotMet)
	ErrAlreadyInitialized = fmt.Errorf("%w: initTwap: already activated", errs.ErrPreconditionNotMet)
	ErrNoTrades           = fmt.Errorf("%w: initTwap: no trades", errs.ErrPreconditionNotMet)
	ErrNotInitialized     = fmt.Errorf("%w: activateRebasing: twap wasnt intitiated", errs.ErrPreconditionNotMet)
	ErrDelayNotElapsed    = fmt.Errorf("%w: activateRebasing: !end_delay", errs.ErrPreconditionNotMet)
	ErrRebasingNotActive  = fmt.Errorf("%w: inRebaseWindow: rebasing not active", errs.ErrPreconditionNotMet)
	ErrTooEarly           = fmt.Errorf("%w: inRebaseWindow: too early", errs.ErrPreconditionNotMet)
	ErrTooLate            = fmt.Errorf("%w: inRebaseWindow: too late", errs.ErrPreconditionNotMet)
	ErrAlreadyTriggered   = fmt.Errorf("%w: rebase: Rebase already triggered", errs.ErrPreconditionNotMet)
	ErrIntervalNotElapsed = fmt.Errorf("%w: rebase: min interval not elapsed", errs.ErrPreconditionNotMet)
	ErrNoElapsedTime      = fmt.Errorf("%w: getCurrentTwap: no time elapsed since last sample", errs.ErrPreconditionNotMet)
	ErrZeroPrice          = fmt.Errorf("%w: price: zero", errs.ErrInvalidParameter)

	ErrDeviationThresholdTooLow  = fmt.Errorf("%w: deviationThreshold: too low", errs.ErrInvalidParameter)
	ErrDeviationThresholdTooHigh = fmt.Errorf("%w: deviationThreshold: too high", errs.ErrInvalidParameter)
	ErrDeviationMovementTooLow   = fmt.Errorf("%w: deviationMovement: too low", errs.ErrInvalidParameter)
	ErrDeviationMovementTooHigh  = fmt.Errorf("%w: deviationMovement: too high", errs.ErrInvalidParameter)
	ErrRetargetThresholdTooLow   = fmt.Errorf("%w: retargetThreshold: too low", errs.ErrInvalidParameter)
	ErrTargetStock2FlowTooLow    = fmt.Errorf("%w: targetStock2Flow: too low", errs.ErrInvalidParameter)
)

// State is the in-memory view of the controller's rebase state.
type State struct {
	Epoch               uint64
	LastRebaseTimestamp uint64 // window floor of the last rebase
	PriceCumulativeLast *uint256.Int
	BlockTimestampLast  uint64
	TimeOfTwapInit      uint64
	TwapInitialized     bool
	RebasingActive      bool

	TargetPrice     *uint256.Int // 1e18 fixed point
	UpwardCounter   uint64
	DownwardCounter uint64
	HalvingCounter  uint64

	// FarmHotpotBasePerBlock is the halving-adjusted base rate the price ratio
	// is applied to.
	FarmHotpotBasePerBlock *uint256.Int
}

// ThresholdConfig holds the deviation and retarget parameters.
type ThresholdConfig struct {
	DeviationThreshold *uint256.Int // half-width of the no-action band, 1e18 fraction
	DeviationMovement  *uint256.Int // target price step on retarget, 1e18 fraction
	RetargetThreshold  uint64       // consecutive same-side rebases before the target moves
	TargetStock2Flow   uint64       // halving interval in units of params.BlocksPerStock2FlowUnit
}

// TimingConfig holds the rebase schedule.
type TimingConfig struct {
	MinRebaseTimeIntervalSec uint64
	RebaseWindowOffsetSec    uint64
	RebaseWindowLengthSec    uint64
	RebaseDelaySec           uint64 // between initTwap and activation
}
