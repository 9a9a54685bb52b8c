package rebase

import "github.com/ethereum/go-ethereum/metrics"

var (
	rebaseMeter    = metrics.NewRegisteredMeter("rebase/trigger", nil)
	retargetMeter  = metrics.NewRegisteredMeter("rebase/retarget", nil)
	rebaseTimer    = metrics.NewRegisteredTimer("rebase/duration", nil)
	epochGauge     = metrics.NewRegisteredGauge("rebase/epoch", nil)
	halvingGauge   = metrics.NewRegisteredGauge("rebase/halving", nil)
	twapGauge      = metrics.NewRegisteredGaugeFloat64("rebase/twap", nil)
	emissionsGauge = metrics.NewRegisteredGaugeFloat64("rebase/emission", nil)
)
