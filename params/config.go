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

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/naoina/toml"

	"github.com/hotpot-network/hotpot/errs"
)

// Decimal is a uint256 quantity written as a base-10 string in config files,
// since TOML integers cannot hold 1e20-sized token amounts.
type Decimal uint256.Int

// NewDecimal wraps v.
func NewDecimal(v *uint256.Int) *Decimal {
	d := Decimal(*v)
	return &d
}

// Int returns a copy of the value.
func (d *Decimal) Int() *uint256.Int {
	if d == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set((*uint256.Int)(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte((*uint256.Int)(&d).Dec()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decimal) UnmarshalText(input []byte) error {
	v, err := uint256.FromDecimal(string(input))
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %v", input, err)
	}
	*d = Decimal(*v)
	return nil
}

// PotConfig holds the staking pot deployment parameters.
type PotConfig struct {
	Owner              common.Address // Initial owner; normally transferred to the controller.
	Dev                common.Address // Receives the dev cut of every claim.
	HotpotBase         common.Address // Base token ledger the pot mints from.
	HotpotBasePerBlock *Decimal
	StartBlock         uint64
	TipRate            *Decimal
	RedPotShare        *Decimal `toml:",omitempty"`
}

// RebaseConfig holds the rebase controller deployment parameters.
type RebaseConfig struct {
	Gov                      common.Address
	TargetPrice              *Decimal
	DeviationThreshold       *Decimal
	DeviationMovement        *Decimal
	RetargetThreshold        uint64
	TargetStock2Flow         uint64
	MinRebaseTimeIntervalSec uint64
	RebaseWindowOffsetSec    uint64
	RebaseWindowLengthSec    uint64
	RebaseDelaySec           uint64
}

// Config is the top-level protocol configuration.
type Config struct {
	Pot    PotConfig
	Rebase RebaseConfig
}

// DefaultConfig returns the launch parameters of the protocol. Every call
// returns fresh values, so callers may modify the result.
func DefaultConfig() Config {
	return Config{
		Pot: PotConfig{
			HotpotBase:         HotpotBaseAddress,
			HotpotBasePerBlock: NewDecimal(uint256.MustFromDecimal("100000000000000000000")),
			StartBlock:         100,
			TipRate:            NewDecimal(uint256.NewInt(1e10)),
			RedPotShare:        NewDecimal(DefaultRedPotShare),
		},
		Rebase: RebaseConfig{
			TargetPrice:              NewDecimal(DefaultTargetPrice),
			DeviationThreshold:       NewDecimal(DefaultDeviationThreshold),
			DeviationMovement:        NewDecimal(DefaultDeviationMovement),
			RetargetThreshold:        DefaultRetargetThreshold,
			TargetStock2Flow:         DefaultTargetStock2Flow,
			MinRebaseTimeIntervalSec: DefaultMinRebaseTimeIntervalSec,
			RebaseWindowOffsetSec:    DefaultRebaseWindowOffsetSec,
			RebaseWindowLengthSec:    DefaultRebaseWindowLengthSec,
			RebaseDelaySec:           DefaultRebaseDelaySec,
		},
	}
}

// Validate checks the pot parameters.
func (c *PotConfig) Validate() error {
	if c.HotpotBasePerBlock == nil || c.TipRate == nil {
		return fmt.Errorf("%w: pot: missing emission parameters", errs.ErrInvalidParameter)
	}
	if c.TipRate.Int().Gt(MaxTipRate) {
		return fmt.Errorf("%w: tipRate: too high", errs.ErrInvalidParameter)
	}
	if c.RedPotShare != nil && c.RedPotShare.Int().Gt(MaxRedPotShare) {
		return fmt.Errorf("%w: redPotShare: too high", errs.ErrInvalidParameter)
	}
	return nil
}

// Validate checks the controller parameters with the same rules the
// governance setters enforce.
func (c *RebaseConfig) Validate() error {
	switch {
	case c.TargetPrice == nil || c.TargetPrice.Int().IsZero():
		return fmt.Errorf("%w: targetPrice: too low", errs.ErrInvalidParameter)
	case c.DeviationThreshold == nil || c.DeviationThreshold.Int().IsZero():
		return fmt.Errorf("%w: deviationThreshold: too low", errs.ErrInvalidParameter)
	case !c.DeviationThreshold.Int().Lt(PriceScale):
		return fmt.Errorf("%w: deviationThreshold: too high", errs.ErrInvalidParameter)
	case c.DeviationMovement == nil || c.DeviationMovement.Int().IsZero():
		return fmt.Errorf("%w: deviationMovement: too low", errs.ErrInvalidParameter)
	case !c.DeviationMovement.Int().Lt(PriceScale):
		return fmt.Errorf("%w: deviationMovement: too high", errs.ErrInvalidParameter)
	case c.RetargetThreshold == 0:
		return fmt.Errorf("%w: retargetThreshold: too low", errs.ErrInvalidParameter)
	case c.TargetStock2Flow == 0:
		return fmt.Errorf("%w: targetStock2Flow: too low", errs.ErrInvalidParameter)
	}
	return ValidateRebaseTiming(c.MinRebaseTimeIntervalSec, c.RebaseWindowOffsetSec, c.RebaseWindowLengthSec)
}

// ValidateRebaseTiming checks that the rebase window fits inside one interval.
func ValidateRebaseTiming(interval, offset, length uint64) error {
	if interval == 0 {
		return fmt.Errorf("%w: minRebaseTimeIntervalSec: too low", errs.ErrInvalidParameter)
	}
	if offset >= interval {
		return fmt.Errorf("%w: rebaseWindowOffsetSec: too high", errs.ErrInvalidParameter)
	}
	if length > interval-offset {
		return fmt.Errorf("%w: rebaseWindowLengthSec: too high", errs.ErrInvalidParameter)
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Pot.Validate(); err != nil {
		return err
	}
	return c.Rebase.Validate()
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// LoadConfig reads a TOML file over DefaultConfig and validates it.
func LoadConfig(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := DefaultConfig()
	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MarshalConfig encodes cfg as TOML.
func MarshalConfig(cfg *Config) ([]byte, error) {
	return tomlSettings.Marshal(cfg)
}
