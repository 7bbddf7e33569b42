/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error types in one place. The engine itself favors defensive
  defaulting over errors: a date with no cost record aggregates as zero,
  an assignment pointing at a deleted resource is skipped. Errors are
  reserved for malformed input at the boundary (date parsing, allocation
  construction) and for lookups the caller asked for by id.

SEE ALSO:
  - types.go: ParseAllocation uses ErrMalformedDate
  - rollup.go: unknown dimension/unit validation
*/
package planning

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedDate is returned when a raw date or month string does not
	// parse as canonical ISO. Allocation maps with malformed keys are
	// rejected outright rather than silently skipped, so a data-integrity
	// problem surfaces at load time instead of as a wrong total.
	ErrMalformedDate = errors.New("malformed date")

	// ErrResourceNotFound is returned when a referenced resource id is
	// absent from the snapshot.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAssignmentNotFound is returned when a referenced assignment id is
	// absent from the snapshot.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrProjectNotFound is returned when a referenced project id is absent
	// from the snapshot.
	ErrProjectNotFound = errors.New("project not found")

	// ErrUnknownDimension is returned for a rollup dimension outside the
	// supported set.
	ErrUnknownDimension = errors.New("unknown rollup dimension")

	// ErrUnknownUnit is returned for a rollup unit outside days/fte/cost.
	ErrUnknownUnit = errors.New("unknown rollup unit")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// AllocationKeyError reports the exact offending key of a rejected
// allocation map.
type AllocationKeyError struct {
	AssignmentID AssignmentID
	Key          string
}

func (e *AllocationKeyError) Error() string {
	return fmt.Sprintf("allocation for assignment %s: malformed date key %q", e.AssignmentID, e.Key)
}

func (e *AllocationKeyError) Unwrap() error { return ErrMalformedDate }

// IsNotFound reports whether the error is a snapshot lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrProjectNotFound)
}
