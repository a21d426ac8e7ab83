package game

import "errors"

var (
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInsufficientResource   = errors.New("insufficient resource")
	ErrConfined               = errors.New("confined")
	ErrNotOwned               = errors.New("not owned")
	ErrCapacityExceeded       = errors.New("capacity exceeded")
	ErrBelowLevelRequirement  = errors.New("below level requirement")
	ErrAlreadyExists          = errors.New("already exists")
	ErrNotFound               = errors.New("not found")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrNotReady               = errors.New("not ready")
	ErrInvalidInput           = errors.New("invalid input")
)

// ErrorKind is the client-facing classification of an action error
type ErrorKind string

const (
	KindInsufficientFunds      ErrorKind = "InsufficientFunds"
	KindInsufficientResource   ErrorKind = "InsufficientResource"
	KindConfined               ErrorKind = "Confined"
	KindNotOwned               ErrorKind = "NotOwned"
	KindCapacityExceeded       ErrorKind = "CapacityExceeded"
	KindBelowLevelRequirement  ErrorKind = "BelowLevelRequirement"
	KindAlreadyExists          ErrorKind = "AlreadyExists"
	KindNotFound               ErrorKind = "NotFound"
	KindConcurrentModification ErrorKind = "ConcurrentModification"
	KindNotReady               ErrorKind = "NotReady"
	KindInvalidInput           ErrorKind = "InvalidInput"
	KindInternal               ErrorKind = "Internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrInsufficientResource, KindInsufficientResource},
	{ErrConfined, KindConfined},
	{ErrNotOwned, KindNotOwned},
	{ErrCapacityExceeded, KindCapacityExceeded},
	{ErrBelowLevelRequirement, KindBelowLevelRequirement},
	{ErrAlreadyExists, KindAlreadyExists},
	{ErrNotFound, KindNotFound},
	{ErrConcurrentModification, KindConcurrentModification},
	{ErrNotReady, KindNotReady},
	{ErrInvalidInput, KindInvalidInput},
}

// KindOf classifies err, returning KindInternal for anything unrecognised
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
