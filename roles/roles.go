// Package roles implements the access-control collaborators used by the
// protocol components: a single-owner role and a two-step governance handoff.
// Both keep their state in slots of the component they guard.
package roles

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hotpot-network/hotpot/errs"
	"github.com/hotpot-network/hotpot/state"
)

var (
	ErrNotOwner      = fmt.Errorf("%w: Ownable: caller is not the owner", errs.ErrAccessControl)
	ErrZeroOwner     = fmt.Errorf("%w: Ownable: new owner is the zero address", errs.ErrInvalidParameter)
	ErrNotGov        = fmt.Errorf("%w: onlyGov: caller is not gov", errs.ErrAccessControl)
	ErrNotPendingGov = fmt.Errorf("%w: acceptGov: !pending", errs.ErrAccessControl)
)

// OwnershipTransferredEvent is emitted whenever the owner changes, including
// the initial assignment.
type OwnershipTransferredEvent struct {
	PreviousOwner common.Address
	NewOwner      common.Address
}

// NewPendingGovEvent is emitted when gov stages a successor.
type NewPendingGovEvent struct {
	OldPendingGov common.Address
	NewPendingGov common.Address
}

// NewGovEvent is emitted when the pending gov accepts the role.
type NewGovEvent struct {
	OldGov common.Address
	NewGov common.Address
}

func roleSlot(namespace, field string) common.Hash {
	return common.BytesToHash(crypto.Keccak256([]byte(namespace + "." + field)))
}

// Ownable guards a component with a single owner account.
type Ownable struct {
	db    *state.StateDB
	addr  common.Address
	owner common.Hash
}

// NewOwnable binds the owner role stored under namespace in the slots of addr.
func NewOwnable(db *state.StateDB, addr common.Address, namespace string) *Ownable {
	return &Ownable{db: db, addr: addr, owner: roleSlot(namespace, "owner")}
}

// Owner returns the current owner.
func (o *Ownable) Owner() common.Address {
	return o.db.GetAddress(o.addr, o.owner)
}

// Init assigns the first owner without an access check. Used at deployment.
func (o *Ownable) Init(owner common.Address) {
	o.set(owner)
}

// Require fails unless caller is the owner.
func (o *Ownable) Require(caller common.Address) error {
	if caller != o.Owner() {
		return ErrNotOwner
	}
	return nil
}

// Transfer hands the role to newOwner.
func (o *Ownable) Transfer(caller, newOwner common.Address) error {
	if err := o.Require(caller); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return ErrZeroOwner
	}
	o.set(newOwner)
	return nil
}

func (o *Ownable) set(owner common.Address) {
	prev := o.Owner()
	o.db.SetAddress(o.addr, o.owner, owner)
	o.db.AddLog(o.addr, OwnershipTransferredEvent{PreviousOwner: prev, NewOwner: owner})
	log.Debug("roles: ownership transferred", "component", o.addr, "from", prev, "to", owner)
}

// Governance is the two-step handoff of the gov role: the current gov proposes a
// successor, which becomes gov only once it accepts.
type Governance struct {
	db      *state.StateDB
	addr    common.Address
	gov     common.Hash
	pending common.Hash
}

// NewGovernance binds the gov role stored under namespace in the slots of addr.
func NewGovernance(db *state.StateDB, addr common.Address, namespace string) *Governance {
	return &Governance{
		db:      db,
		addr:    addr,
		gov:     roleSlot(namespace, "gov"),
		pending: roleSlot(namespace, "pendingGov"),
	}
}

func (g *Governance) Gov() common.Address        { return g.db.GetAddress(g.addr, g.gov) }
func (g *Governance) PendingGov() common.Address { return g.db.GetAddress(g.addr, g.pending) }

// Init assigns the first gov without an access check. Used at deployment.
func (g *Governance) Init(gov common.Address) {
	g.db.SetAddress(g.addr, g.gov, gov)
}

// RequireGov fails unless caller is gov.
func (g *Governance) RequireGov(caller common.Address) error {
	if caller != g.Gov() {
		return ErrNotGov
	}
	return nil
}

// Propose stages pending as the next gov.
func (g *Governance) Propose(caller, pending common.Address) error {
	if err := g.RequireGov(caller); err != nil {
		return err
	}
	old := g.PendingGov()
	g.db.SetAddress(g.addr, g.pending, pending)
	g.db.AddLog(g.addr, NewPendingGovEvent{OldPendingGov: old, NewPendingGov: pending})
	log.Info("Staged pending gov", "component", g.addr, "old", old, "new", pending)
	return nil
}

// Accept completes the handoff. Only the staged account may call it.
func (g *Governance) Accept(caller common.Address) error {
	pending := g.PendingGov()
	if pending == (common.Address{}) || caller != pending {
		return ErrNotPendingGov
	}
	old := g.Gov()
	g.db.SetAddress(g.addr, g.gov, pending)
	g.db.SetAddress(g.addr, g.pending, common.Address{})
	g.db.AddLog(g.addr, NewGovEvent{OldGov: old, NewGov: pending})
	log.Info("Accepted gov", "component", g.addr, "old", old, "new", pending)
	return nil
}
