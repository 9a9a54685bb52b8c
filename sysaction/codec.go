package sysaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
)

var (
	// ErrInvalidSysAction is returned when data cannot be decoded as a SysAction.
	ErrInvalidSysAction = errors.New("invalid system action payload")

	// ErrInvalidPayload is returned when a payload field is malformed.
	ErrInvalidPayload = fmt.Errorf("%w: invalid system action field", errs.ErrInvalidParameter)
)

// Decode parses a SysAction from raw bytes.
func Decode(data []byte) (*SysAction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidSysAction)
	}
	var sa SysAction
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSysAction, err)
	}
	if sa.Action == "" {
		return nil, fmt.Errorf("%w: missing action field", ErrInvalidSysAction)
	}
	if !common.IsHexAddress(sa.To) {
		return nil, fmt.Errorf("%w: invalid target address %q", ErrInvalidSysAction, sa.To)
	}
	return &sa, nil
}

// Target returns the component address the action is sent to.
func (sa *SysAction) Target() common.Address {
	return common.HexToAddress(sa.To)
}

// DecodePayload unmarshals sa.Payload into dst.
func DecodePayload(sa *SysAction, dst interface{}) error {
	if len(sa.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(sa.Payload, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSysAction, sa.Action, err)
	}
	return nil
}

// Encode serialises a SysAction to JSON bytes.
func Encode(sa *SysAction) ([]byte, error) {
	return json.Marshal(sa)
}

// MakeSysAction is a convenience helper that creates and encodes a SysAction.
func MakeSysAction(kind ActionKind, to common.Address, payload interface{}) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return Encode(&SysAction{Action: kind, To: to.Hex(), Payload: raw})
}

// ParseAmount decodes a base-10 amount field. An empty string is zero.
func ParseAmount(field, s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", ErrInvalidPayload, field, s, err)
	}
	return v, nil
}

// ParseAddress decodes a hex address field.
func ParseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s %q", ErrInvalidPayload, field, s)
	}
	return common.HexToAddress(s), nil
}
