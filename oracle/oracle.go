// Package oracle supplies the cumulative price signal the rebase controller
// samples its TWAP from.
//
// A cumulative price is the running sum of price x seconds, with prices in
// 1e18 fixed point. The TWAP between two samples is the cumulative delta
// divided by the elapsed seconds.
package oracle

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/hotpot-network/hotpot/errs"
	"github.com/hotpot-network/hotpot/fixedpoint"
)

// ErrStaleObservation is returned when an observation would move time backwards.
var ErrStaleObservation = fmt.Errorf("%w: oracle: observation older than last update", errs.ErrInvalidParameter)

// Source is a price accumulator.
type Source interface {
	// CurrentCumulativePrice returns the cumulative price and the timestamp it
	// was accumulated up to.
	CurrentCumulativePrice() (cumulative *uint256.Int, timestamp uint64, err error)
}

// Manual is a Source fed explicit price observations. Safe for concurrent use.
type Manual struct {
	mu         sync.Mutex
	cumulative *uint256.Int
	timestamp  uint64
}

// NewManual creates an empty accumulator positioned at timestamp.
func NewManual(timestamp uint64) *Manual {
	return &Manual{cumulative: new(uint256.Int), timestamp: timestamp}
}

// CurrentCumulativePrice implements Source.
func (m *Manual) CurrentCumulativePrice() (*uint256.Int, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cumulative.Clone(), m.timestamp, nil
}

// Observe records that price held from the last update until now.
func (m *Manual) Observe(price *uint256.Int, now uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now < m.timestamp {
		return ErrStaleObservation
	}
	delta, err := fixedpoint.Mul(price, uint256.NewInt(now-m.timestamp))
	if err != nil {
		return err
	}
	cumulative, err := fixedpoint.Add(m.cumulative, delta)
	if err != nil {
		return err
	}
	m.cumulative, m.timestamp = cumulative, now
	return nil
}

// Set overwrites the accumulator.
func (m *Manual) Set(cumulative *uint256.Int, timestamp uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cumulative, m.timestamp = cumulative.Clone(), timestamp
}
