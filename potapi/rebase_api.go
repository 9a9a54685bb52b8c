package potapi

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/rebase"
)

// RebaseAPI implements the rebase_* namespace.
type RebaseAPI struct {
	ctrl *rebase.Controller
}

// NewRebaseAPI creates a RebaseAPI over ctrl.
func NewRebaseAPI(ctrl *rebase.Controller) *RebaseAPI {
	return &RebaseAPI{ctrl: ctrl}
}

// Twap is a TWAP sample as a rebase would take it now.
type Twap struct {
	PriceCumulative *uint256.Int `json:"priceCumulative"`
	BlockTimestamp  uint64       `json:"blockTimestamp"`
	Twap            *uint256.Int `json:"twap"`
}

// Window reports whether a rebase could run now and, if not, why.
type Window struct {
	Open   bool   `json:"open"`
	Reason string `json:"reason,omitempty"`
}

// Forecast is what a rebase at a given price would push into the pot.
type Forecast struct {
	HotpotBasePerBlock     *uint256.Int `json:"hotpotBasePerBlock"`
	FarmHotpotBasePerBlock *uint256.Int `json:"farmHotpotBasePerBlock"`
	HalvingCounter         uint64       `json:"halvingCounter"`
	WithinThreshold        bool         `json:"withinThreshold"`
	RedShare               *uint256.Int `json:"redShare"`
}

func (a *RebaseAPI) State(_ context.Context) rebase.State {
	return a.ctrl.ReadState()
}

func (a *RebaseAPI) Thresholds(_ context.Context) rebase.ThresholdConfig {
	return a.ctrl.ReadThresholds()
}

func (a *RebaseAPI) Timing(_ context.Context) rebase.TimingConfig {
	return a.ctrl.ReadTiming()
}

// CurrentTwap samples the oracle without recording anything.
func (a *RebaseAPI) CurrentTwap(_ context.Context) (*Twap, error) {
	cum, ts, twap, err := a.ctrl.GetCurrentTwap()
	if err != nil {
		return nil, err
	}
	return &Twap{PriceCumulative: cum, BlockTimestamp: ts, Twap: twap}, nil
}

func (a *RebaseAPI) RebaseWindow(_ context.Context) Window {
	if _, err := a.ctrl.InRebaseWindow(); err != nil {
		return Window{Reason: err.Error()}
	}
	return Window{Open: true}
}

// Forecast evaluates the emission and red share a rebase at price would
// produce.
func (a *RebaseAPI) Forecast(_ context.Context, price *uint256.Int) (*Forecast, error) {
	base, farm, halving, err := a.ctrl.GetNewHotpotBasePerBlock(price)
	if err != nil {
		return nil, err
	}
	within, err := a.ctrl.WithinDeviationThreshold(price)
	if err != nil {
		return nil, err
	}
	share, err := a.ctrl.GetNewRedShare(price)
	if err != nil {
		return nil, err
	}
	return &Forecast{
		HotpotBasePerBlock:     base,
		FarmHotpotBasePerBlock: farm,
		HalvingCounter:         halving,
		WithinThreshold:        within,
		RedShare:               share,
	}, nil
}
