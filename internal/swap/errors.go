// Package swap implements the cross-chain atomic swap deal registry, state
// machine, and initiator/responder/resolver protocol logic for the node.
// It never talks to the order book, a chain daemon, or a peer transport
// directly; it is written against the lnclient.Client and peer.Peer
// interfaces so its tests run against stubs instead of live backends.
package swap

import (
	"errors"
	"fmt"
)

// Coordinator errors.
var (
	ErrDealNotFound    = errors.New("swap: deal not found")
	ErrDealExists      = errors.New("swap: deal already exists")
	ErrNoBackend       = errors.New("swap: no chain client for currency")
	ErrUnsupportedPair = errors.New("swap: unsupported pair")
	ErrPreimageMismatch = errors.New("swap: returned preimage does not match r_hash")
)

// ProtocolViolationError marks an illegal phase/state transition: a
// programming bug, not a protocol-level failure a peer can trigger.
type ProtocolViolationError struct {
	msg string
}

func (e *ProtocolViolationError) Error() string { return e.msg }

// assertf panics with a ProtocolViolationError when cond is false. Per the
// design, an illegal phase/state transition is a programming error, not a
// recoverable protocol failure, so it aborts rather than propagating as an
// ordinary error.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(&ProtocolViolationError{msg: fmt.Sprintf(format, args...)})
	}
}
