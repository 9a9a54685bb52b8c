package rebase

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type TwapInitializedEvent struct {
	PriceCumulative *uint256.Int
	BlockTimestamp  uint64
	TimeOfTwapInit  uint64
}

type RebasingActivatedEvent struct {
	Time uint64
}

// RebaseEvent is emitted once per successful rebase with the values pushed to
// the pot and the controller state left behind.
type RebaseEvent struct {
	Epoch                  uint64
	Caller                 common.Address
	Twap                   *uint256.Int
	TargetPrice            *uint256.Int
	HotpotBasePerBlock     *uint256.Int
	FarmHotpotBasePerBlock *uint256.Int
	HalvingCounter         uint64
	UpwardCounter          uint64
	DownwardCounter        uint64
	InCircuitBreaker       bool
}

type NewTargetPriceEvent struct {
	Old *uint256.Int
	New *uint256.Int
}

type NewDeviationThresholdEvent struct {
	Old *uint256.Int
	New *uint256.Int
}

type NewDeviationMovementEvent struct {
	Old *uint256.Int
	New *uint256.Int
}

type NewRetargetThresholdEvent struct {
	Old uint64
	New uint64
}

type NewTargetStock2FlowEvent struct {
	Old uint64
	New uint64
}

type NewRebaseTimingEvent struct {
	Old TimingConfig
	New TimingConfig
}
