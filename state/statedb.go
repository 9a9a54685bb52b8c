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

// Package state provides the journaled slot storage shared by all protocol
// components.
//
// Every component keeps its state in 32-byte slots keyed by (component address,
// slot hash). Modifications are held in memory and journaled, so a failing
// operation can be rolled back as a whole, until Commit flushes them to the
// backing key-value store.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/potdb"
)

// cleanCacheSize is the number of committed slots kept in the read cache.
const cleanCacheSize = 4096

// slotPrefix namespaces slot entries in the key-value store.
var slotPrefix = []byte("s")

type slotKey struct {
	addr common.Address
	slot common.Hash
}

// dbKey = slotPrefix + address + slot
func (k slotKey) dbKey() []byte {
	key := make([]byte, 0, len(slotPrefix)+common.AddressLength+common.HashLength)
	key = append(key, slotPrefix...)
	key = append(key, k.addr.Bytes()...)
	return append(key, k.slot.Bytes()...)
}

// Log is an event emitted by a protocol component during an operation.
type Log struct {
	Address common.Address // Component that emitted the event
	Index   uint           // Position among the logs since the last commit
	Event   any
}

// StateDB holds the protocol state. It is not safe for concurrent use; callers
// serialise operations, as sysaction.Executor does.
type StateDB struct {
	disk  potdb.KeyValueStore
	clean *lru.ARCCache // committed slot values

	dirty   map[slotKey]common.Hash
	journal *journal
	logs    []*Log

	// DB error.
	// State objects are used by the protocol code which is unable to deal with
	// database-level errors. Any error that occurs during a database read is
	// memoized here and will eventually be returned by StateDB.Commit.
	dbErr error
}

// New creates a state on top of the given key-value store.
func New(disk potdb.KeyValueStore) (*StateDB, error) {
	clean, err := lru.NewARC(cleanCacheSize)
	if err != nil {
		return nil, err
	}
	return &StateDB{
		disk:    disk,
		clean:   clean,
		dirty:   make(map[slotKey]common.Hash),
		journal: newJournal(),
	}, nil
}

// setError remembers the first non-nil error it is called with.
func (s *StateDB) setError(err error) {
	if s.dbErr == nil {
		s.dbErr = err
	}
}

// Error returns the memorized database failure occurred earlier.
func (s *StateDB) Error() error {
	return s.dbErr
}

// GetState retrieves the current value of a slot.
func (s *StateDB) GetState(addr common.Address, slot common.Hash) common.Hash {
	slotReadMeter.Mark(1)
	key := slotKey{addr, slot}
	if value, dirty := s.dirty[key]; dirty {
		return value
	}
	return s.committed(key)
}

// GetCommittedState retrieves the value of a slot as of the last commit.
func (s *StateDB) GetCommittedState(addr common.Address, slot common.Hash) common.Hash {
	return s.committed(slotKey{addr, slot})
}

func (s *StateDB) committed(key slotKey) common.Hash {
	if cached, ok := s.clean.Get(key); ok {
		cleanHitMeter.Mark(1)
		return cached.(common.Hash)
	}
	cleanMissMeter.Mark(1)

	enc, err := s.disk.Get(key.dbKey())
	switch {
	case errors.Is(err, potdb.ErrNotFound):
		s.clean.Add(key, common.Hash{})
		return common.Hash{}
	case err != nil:
		s.setError(fmt.Errorf("load slot %x of %x: %v", key.slot, key.addr, err))
		return common.Hash{}
	}
	value := common.BytesToHash(enc)
	s.clean.Add(key, value)
	return value
}

// SetState updates a slot. The change is journaled and stays in memory until Commit.
func (s *StateDB) SetState(addr common.Address, slot common.Hash, value common.Hash) {
	key := slotKey{addr, slot}
	prev, dirty := s.dirty[key]
	s.journal.append(storageChange{key: key, prev: prev, prevDirt: dirty})
	s.dirty[key] = value
	slotUpdateMeter.Mark(1)
}

// GetU256 reads a slot as a 256-bit unsigned integer.
func (s *StateDB) GetU256(addr common.Address, slot common.Hash) *uint256.Int {
	h := s.GetState(addr, slot)
	return new(uint256.Int).SetBytes32(h[:])
}

// SetU256 stores v in a slot. A nil v clears the slot.
func (s *StateDB) SetU256(addr common.Address, slot common.Hash, v *uint256.Int) {
	if v == nil {
		s.SetState(addr, slot, common.Hash{})
		return
	}
	s.SetState(addr, slot, common.Hash(v.Bytes32()))
}

func (s *StateDB) GetUint64(addr common.Address, slot common.Hash) uint64 {
	h := s.GetState(addr, slot)
	return binary.BigEndian.Uint64(h[common.HashLength-8:])
}

func (s *StateDB) SetUint64(addr common.Address, slot common.Hash, v uint64) {
	var h common.Hash
	binary.BigEndian.PutUint64(h[common.HashLength-8:], v)
	s.SetState(addr, slot, h)
}

func (s *StateDB) GetBool(addr common.Address, slot common.Hash) bool {
	return s.GetState(addr, slot) != (common.Hash{})
}

func (s *StateDB) SetBool(addr common.Address, slot common.Hash, v bool) {
	var h common.Hash
	if v {
		h[common.HashLength-1] = 1
	}
	s.SetState(addr, slot, h)
}

func (s *StateDB) GetAddress(addr common.Address, slot common.Hash) common.Address {
	h := s.GetState(addr, slot)
	return common.BytesToAddress(h[common.HashLength-common.AddressLength:])
}

func (s *StateDB) SetAddress(addr common.Address, slot common.Hash, v common.Address) {
	s.SetState(addr, slot, common.BytesToHash(v.Bytes()))
}

// AddLog records an event emitted by the component at addr.
func (s *StateDB) AddLog(addr common.Address, event any) {
	s.journal.append(addLogChange{})
	s.logs = append(s.logs, &Log{Address: addr, Index: uint(len(s.logs)), Event: event})
}

// Logs returns the logs emitted since the last commit.
func (s *StateDB) Logs() []*Log {
	return s.LogsFrom(0)
}

// LogsFrom returns the logs emitted since the log count was n.
func (s *StateDB) LogsFrom(n int) []*Log {
	if n >= len(s.logs) {
		return nil
	}
	return append([]*Log(nil), s.logs[n:]...)
}

// LogCount returns the number of logs emitted since the last commit.
func (s *StateDB) LogCount() int {
	return len(s.logs)
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	return s.journal.snapshot()
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	s.journal.revertToSnapshot(revid, s)
	revertMeter.Mark(1)
}

// Atomic runs fn against the state. If fn fails, every slot write and log it
// made is rolled back before the error is returned. Calls may nest.
func (s *StateDB) Atomic(fn func() error) error {
	revid := s.Snapshot()
	if err := fn(); err != nil {
		s.RevertToSnapshot(revid)
		return err
	}
	s.journal.discardSnapshot(revid)
	return nil
}

// Commit writes all pending slot changes to the key-value store and clears the
// journal and the log list. Zero-valued slots are deleted. It returns the number
// of slots written.
func (s *StateDB) Commit() (int, error) {
	if s.dbErr != nil {
		return 0, fmt.Errorf("commit aborted due to earlier error: %v", s.dbErr)
	}
	start := time.Now()
	defer commitTimer.UpdateSince(start)

	batch := s.disk.NewBatch()
	for key, value := range s.dirty {
		var err error
		if value == (common.Hash{}) {
			err = batch.Delete(key.dbKey())
			slotDeleteMeter.Mark(1)
		} else {
			err = batch.Put(key.dbKey(), common.TrimLeftZeroes(value[:]))
		}
		if err != nil {
			return 0, err
		}
	}
	if err := batch.Write(); err != nil {
		return 0, err
	}
	for key, value := range s.dirty {
		s.clean.Add(key, value)
	}
	n := len(s.dirty)
	s.dirty = make(map[slotKey]common.Hash)
	s.journal.reset()
	s.logs = nil

	commitSlotsGauge.Update(int64(n))
	log.Debug("Committed state", "slots", n, "size", batch.ValueSize(), "elapsed", common.PrettyDuration(time.Since(start)))
	return n, nil
}
