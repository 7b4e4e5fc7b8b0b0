package services

import "errors"

// Expected outcomes of the settlement engine. Handlers map these onto HTTP
// statuses; anything else bubbling out of a service is a store failure and
// surfaces as a generic retryable error.
var (
	// ErrInvalidInput rejects a malformed guess before any CP is spent
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientCP means the user's computing power is exhausted;
	// retryable after the next refill interval
	ErrInsufficientCP = errors.New("insufficient computing power")

	// ErrStaleBlock means the submission targets a block that is no longer
	// active; the client must refetch the current block
	ErrStaleBlock = errors.New("block is no longer active")

	// ErrNoActiveBlock means the contest is between blocks
	ErrNoActiveBlock = errors.New("no active block")

	// ErrNotWinner rejects a hint from anyone but the block's winner
	ErrNotWinner = errors.New("only the block winner may submit a hint")

	// ErrWrongPhase rejects a lifecycle transition the block is not ready for
	ErrWrongPhase = errors.New("block is not in the expected lifecycle state")
)
