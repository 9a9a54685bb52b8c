// Package sysaction implements the hotpot action protocol.
//
// An action is a JSON-encoded SysAction message naming the operation, the
// component it targets and an operation-specific payload. The Executor decodes
// it, dispatches it to the registered handler for that component and applies
// the resulting state changes atomically.
package sysaction

import "encoding/json"

// ActionKind identifies the type of action.
type ActionKind string

const (
	// Staking pot, user operations
	ActionPotDeposit           ActionKind = "POT_DEPOSIT"
	ActionPotWithdraw          ActionKind = "POT_WITHDRAW"
	ActionPotClaimReward       ActionKind = "POT_CLAIM_REWARD"
	ActionPotEmergencyWithdraw ActionKind = "POT_EMERGENCY_WITHDRAW"
	ActionPotUpdatePool        ActionKind = "POT_UPDATE_POOL"
	ActionPotMassUpdatePools   ActionKind = "POT_MASS_UPDATE_POOLS"

	// Staking pot, owner and dev operations
	ActionPotAddPool               ActionKind = "POT_ADD_POOL"
	ActionPotSetPool               ActionKind = "POT_SET_POOL"
	ActionPotSetCircuitBreaker     ActionKind = "POT_SET_CIRCUIT_BREAKER"
	ActionPotSetHotpotBasePerBlock ActionKind = "POT_SET_HOTPOT_BASE_PER_BLOCK"
	ActionPotSetTipRate            ActionKind = "POT_SET_TIP_RATE"
	ActionPotSetRedPotShare        ActionKind = "POT_SET_RED_POT_SHARE"
	ActionPotSetDev                ActionKind = "POT_SET_DEV"
	ActionPotTransferOwnership     ActionKind = "POT_TRANSFER_OWNERSHIP"

	// Rebase controller lifecycle
	ActionRebaseInitTwap ActionKind = "REBASE_INIT_TWAP"
	ActionRebaseActivate ActionKind = "REBASE_ACTIVATE"
	ActionRebase         ActionKind = "REBASE"

	// Rebase controller governance
	ActionRebaseSetPendingGov         ActionKind = "REBASE_SET_PENDING_GOV"
	ActionRebaseAcceptGov             ActionKind = "REBASE_ACCEPT_GOV"
	ActionRebaseSetDeviationThreshold ActionKind = "REBASE_SET_DEVIATION_THRESHOLD"
	ActionRebaseSetDeviationMovement  ActionKind = "REBASE_SET_DEVIATION_MOVEMENT"
	ActionRebaseSetRetargetThreshold  ActionKind = "REBASE_SET_RETARGET_THRESHOLD"
	ActionRebaseSetTargetStock2Flow   ActionKind = "REBASE_SET_TARGET_STOCK2FLOW"
	ActionRebaseSetTiming             ActionKind = "REBASE_SET_TIMING"
)

// SysAction is the top-level envelope of an action.
type SysAction struct {
	Action  ActionKind      `json:"action"`
	To      string          `json:"to"` // hex address of the target component
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Amounts are base-10 strings so 256-bit values survive JSON untouched.

// PoolAmountPayload is the payload for POT_DEPOSIT / POT_WITHDRAW.
type PoolAmountPayload struct {
	Pid    uint64 `json:"pid"`
	Amount string `json:"amount"`
}

// PoolPayload is the payload for POT_EMERGENCY_WITHDRAW / POT_UPDATE_POOL.
type PoolPayload struct {
	Pid uint64 `json:"pid"`
}

// ClaimRewardPayload is the payload for POT_CLAIM_REWARD.
type ClaimRewardPayload struct {
	Pid    uint64 `json:"pid"`
	Waiter string `json:"waiter"`
}

// AddPoolPayload is the payload for POT_ADD_POOL. Sent to the controller it is
// forwarded to the pot the controller owns.
type AddPoolPayload struct {
	AllocPoint uint64 `json:"alloc_point"`
	Token      string `json:"token"`
	IsRed      bool   `json:"is_red"`
	WithUpdate bool   `json:"with_update"`
}

// SetPoolPayload is the payload for POT_SET_POOL.
type SetPoolPayload struct {
	Pid        uint64 `json:"pid"`
	AllocPoint uint64 `json:"alloc_point"`
	WithUpdate bool   `json:"with_update"`
}

// ValuePayload carries a single decimal value (rates, shares, thresholds).
type ValuePayload struct {
	Value string `json:"value"`
}

// FlagPayload carries a single boolean.
type FlagPayload struct {
	Enabled bool `json:"enabled"`
}

// AddressPayload carries a single hex address (dev, owner, pending gov).
type AddressPayload struct {
	Address string `json:"address"`
}

// TimingPayload is the payload for REBASE_SET_TIMING.
type TimingPayload struct {
	MinRebaseTimeIntervalSec uint64 `json:"min_rebase_time_interval_sec"`
	RebaseWindowOffsetSec    uint64 `json:"rebase_window_offset_sec"`
	RebaseWindowLengthSec    uint64 `json:"rebase_window_length_sec"`
}
