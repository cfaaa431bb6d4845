package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally wrapped)
// so services can translate them into outcomes or domain errors.
//
//   - ErrNotFound: entity does not exist in store
//   - ErrConflict: optimistic write lost against a concurrent writer
//   - ErrInvalidState: entity in wrong state for requested operation
//   - ErrUnavailable: backing store temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
