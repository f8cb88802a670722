// Package errors defines the closed taxonomy of domain errors the engine
// returns. Every error here is a typed struct rather than a sentinel so
// callers can carry the offending identifiers back to the transport layer.
package errors

import "fmt"

// NotFoundError is returned when a referenced play, card or tenant does
// not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ExpiredError is returned when a play's expiresAt has passed.
type ExpiredError struct {
	PlayID string
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("play %s has expired", e.PlayID)
}

// WrongStateError is returned when an input is valid in shape but illegal
// for the play's current state (e.g. a vote while swiping).
type WrongStateError struct {
	PlayID   string
	Expected string
	Actual   string
}

func (e *WrongStateError) Error() string {
	return fmt.Sprintf("play %s: expected state %s, got %s", e.PlayID, e.Expected, e.Actual)
}

// CardMismatchError is returned when a swipe targets a card other than
// nextUnswiped(play).
type CardMismatchError struct {
	PlayID   string
	Expected string
	Actual   string
}

func (e *CardMismatchError) Error() string {
	return fmt.Sprintf("play %s: expected card %s, got %s", e.PlayID, e.Expected, e.Actual)
}

// PairMismatchError is returned when a vote does not match the play's
// currentPair.
type PairMismatchError struct {
	PlayID string
}

func (e *PairMismatchError) Error() string {
	return fmt.Sprintf("play %s: vote pair does not match current comparison", e.PlayID)
}

// InvalidWinnerError is returned when a vote's winner is not one of the
// two cards being compared.
type InvalidWinnerError struct {
	PlayID string
	Winner string
}

func (e *InvalidWinnerError) Error() string {
	return fmt.Sprintf("play %s: winner %s is not in the compared pair", e.PlayID, e.Winner)
}

// ConcurrentModificationError is returned when an optimistic version check
// fails. Safe to retry after re-reading the play.
type ConcurrentModificationError struct {
	PlayID          string
	ExpectedVersion int
	ActualVersion   int
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("play %s: version conflict, expected %d, actual %d", e.PlayID, e.ExpectedVersion, e.ActualVersion)
}

// DeckTooSmallError is returned when a resolved deck has fewer than 2
// cards.
type DeckTooSmallError struct {
	TenantID string
	DeckTag  string
	Size     int
}

func (e *DeckTooSmallError) Error() string {
	return fmt.Sprintf("deck %q for tenant %s has only %d card(s), need at least 2", e.DeckTag, e.TenantID, e.Size)
}

// TenantUnknownError is returned when a tenant has no cards at all.
type TenantUnknownError struct {
	TenantID string
}

func (e *TenantUnknownError) Error() string {
	return fmt.Sprintf("tenant %s is unknown", e.TenantID)
}

// NotChildPlayError is returned when CompleteHierarchical is invoked on a
// play that has no parentPlayId.
type NotChildPlayError struct {
	PlayID string
}

func (e *NotChildPlayError) Error() string {
	return fmt.Sprintf("play %s is not a child play", e.PlayID)
}

// DuplicateInputError is returned when a swipe or vote input repeats a
// natural key with a different payload than the one on record (not a
// retry — a genuine conflicting resubmission).
type DuplicateInputError struct {
	PlayID string
	Detail string
}

func (e *DuplicateInputError) Error() string {
	return fmt.Sprintf("play %s: duplicate input conflicts with recorded value (%s)", e.PlayID, e.Detail)
}

// AlreadyRunningError is returned when RecomputeGlobal is invoked for a
// tenant that already has a run in flight.
type AlreadyRunningError struct {
	TenantID string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("global recompute already running for tenant %s", e.TenantID)
}

// InvariantViolationError is an internal, never-should-happen error. It is
// logged with the offending invariant name and surfaced to callers as a
// generic failure.
type InvariantViolationError struct {
	PlayID    string
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("play %s: invariant %s violated: %s", e.PlayID, e.Invariant, e.Detail)
}
