package sysaction

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/hotpot-network/hotpot/state"
)

var (
	executeMeter     = metrics.NewRegisteredMeter("sysaction/execute", nil)
	executeFailMeter = metrics.NewRegisteredMeter("sysaction/execute/fail", nil)
	executeTimer     = metrics.NewRegisteredTimer("sysaction/execute/time", nil)
)

// Context carries information available to an action handler.
type Context struct {
	From    common.Address
	StateDB *state.StateDB
}

// Handler is implemented by the protocol components.
type Handler interface {
	CanHandle(kind ActionKind, to common.Address) bool
	Handle(ctx *Context, sa *SysAction) error
}

// Registry holds registered handlers.
type Registry struct{ handlers []Handler }

// NewRegistry creates a registry holding the given handlers.
func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{handlers: handlers}
}

// Register adds a handler to the registry.
func (r *Registry) Register(h Handler) { r.handlers = append(r.handlers, h) }

// Lookup returns the first handler accepting the action, or nil.
func (r *Registry) Lookup(kind ActionKind, to common.Address) Handler {
	for _, h := range r.handlers {
		if h.CanHandle(kind, to) {
			return h
		}
	}
	return nil
}

// Executor applies actions to a state one at a time. Each action either
// commits all of its state changes and logs or none of them.
type Executor struct {
	mu       sync.Mutex
	db       *state.StateDB
	registry *Registry
	logFeed  event.Feed
}

// NewExecutor creates an executor dispatching to registry.
func NewExecutor(db *state.StateDB, registry *Registry) *Executor {
	return &Executor{db: db, registry: registry}
}

// Execute decodes data and runs it on behalf of from. It returns the logs the
// action emitted, which are also delivered to log subscribers.
func (e *Executor) Execute(from common.Address, data []byte) ([]*state.Log, error) {
	logs, err := e.apply(from, data)
	if err != nil {
		return nil, err
	}
	// Subscribers are served outside the lock, so a slow reader cannot stall
	// later actions or commits.
	if len(logs) > 0 {
		e.logFeed.Send(logs)
	}
	return logs, nil
}

func (e *Executor) apply(from common.Address, data []byte) ([]*state.Log, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	defer executeTimer.UpdateSince(start)
	executeMeter.Mark(1)

	sa, err := Decode(data)
	if err != nil {
		executeFailMeter.Mark(1)
		return nil, err
	}
	h := e.registry.Lookup(sa.Action, sa.Target())
	if h == nil {
		executeFailMeter.Mark(1)
		return nil, fmt.Errorf("unknown system action: %q to %s", sa.Action, sa.To)
	}
	n := e.db.LogCount()
	ctx := &Context{From: from, StateDB: e.db}
	if err := e.db.Atomic(func() error { return h.Handle(ctx, sa) }); err != nil {
		executeFailMeter.Mark(1)
		log.Debug("System action failed", "action", sa.Action, "to", sa.To, "from", from, "err", err)
		return nil, err
	}
	logs := append([]*state.Log(nil), e.db.LogsFrom(n)...)
	log.Trace("System action applied", "action", sa.Action, "to", sa.To, "from", from, "logs", len(logs))
	return logs, nil
}

// SubscribeLogs registers a subscription for the logs of applied actions.
func (e *Executor) SubscribeLogs(ch chan<- []*state.Log) event.Subscription {
	return e.logFeed.Subscribe(ch)
}

// Commit flushes the applied actions to the backing store.
func (e *Executor) Commit() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.Commit()
}
