// Package chain describes the execution environment the protocol runs in.
//
// Every operation reads the current block height and wall-clock time through a
// Context instead of the host clock, so the environment decides what "now" is
// and tests can drive it deterministically.
package chain

import "sync/atomic"

// Context supplies the current block height and block time (unix seconds).
// Both values must be monotonically non-decreasing across calls.
type Context interface {
	BlockNumber() uint64
	Time() uint64
}

// Manual is a Context whose height and time are set explicitly. It is used by
// block producers that drive the protocol directly and by tests. Safe for
// concurrent use.
type Manual struct {
	number atomic.Uint64
	time   atomic.Uint64
}

// NewManual creates a Manual context positioned at the given height and time.
func NewManual(number, time uint64) *Manual {
	m := new(Manual)
	m.number.Store(number)
	m.time.Store(time)
	return m
}

func (m *Manual) BlockNumber() uint64 { return m.number.Load() }
func (m *Manual) Time() uint64        { return m.time.Load() }

// SetBlockNumber moves the context to height n.
func (m *Manual) SetBlockNumber(n uint64) { m.number.Store(n) }

// SetTime moves the context to unix time t.
func (m *Manual) SetTime(t uint64) { m.time.Store(t) }

// AdvanceBlocks mines n empty blocks.
func (m *Manual) AdvanceBlocks(n uint64) uint64 { return m.number.Add(n) }

// AdvanceTime moves the clock forward by secs seconds.
func (m *Manual) AdvanceTime(secs uint64) uint64 { return m.time.Add(secs) }
