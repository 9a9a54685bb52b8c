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

import "github.com/ethereum/go-ethereum/common"

// Well-known protocol addresses. Deployers may pick any address; these are the
// defaults used by the bundled configuration and by tests.
var (
	// HotpotBaseAddress stores the base token ledger.
	HotpotBaseAddress = common.HexToAddress("0x00000000000000000000000000000000504f5431") // "POT1"

	// YuanYangPotAddress stores the staking pot state via storage slots.
	YuanYangPotAddress = common.HexToAddress("0x00000000000000000000000000000000504f5432") // "POT2"

	// ChefMaoAddress stores the rebase controller state via storage slots.
	ChefMaoAddress = common.HexToAddress("0x00000000000000000000000000000000504f5433") // "POT3"
)
