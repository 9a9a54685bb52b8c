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

package state

import "github.com/ethereum/go-ethereum/metrics"

var (
	slotReadMeter    = metrics.NewRegisteredMeter("state/read/slot", nil)
	slotUpdateMeter  = metrics.NewRegisteredMeter("state/update/slot", nil)
	slotDeleteMeter  = metrics.NewRegisteredMeter("state/delete/slot", nil)
	cleanHitMeter    = metrics.NewRegisteredMeter("state/cache/hit", nil)
	cleanMissMeter   = metrics.NewRegisteredMeter("state/cache/miss", nil)
	revertMeter      = metrics.NewRegisteredMeter("state/revert", nil)
	commitTimer      = metrics.NewRegisteredTimer("state/commit", nil)
	commitSlotsGauge = metrics.NewRegisteredGauge("state/commit/slots", nil)
)
