package staking

import "github.com/ethereum/go-ethereum/metrics"

var (
	depositMeter           = metrics.NewRegisteredMeter("staking/deposit", nil)
	withdrawMeter          = metrics.NewRegisteredMeter("staking/withdraw", nil)
	claimMeter             = metrics.NewRegisteredMeter("staking/claim", nil)
	emergencyWithdrawMeter = metrics.NewRegisteredMeter("staking/emergencywithdraw", nil)
	poolUpdateMeter        = metrics.NewRegisteredMeter("staking/pool/update", nil)
	poolCountGauge         = metrics.NewRegisteredGauge("staking/pool/count", nil)
	breakerGauge           = metrics.NewRegisteredGauge("staking/breaker", nil)
)
