package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: entity changed underneath a conditional write
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
