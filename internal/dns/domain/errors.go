package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification. The provider wraps these so the
// CLI and service layer can branch on error categories without inspecting
// provider-specific messages.
//
//	return fmt.Errorf("failed to delete record: %w", domain.ErrNotFound)
var (
	// ErrTransport indicates the provider could not be reached or did not
	// return a usable response: connection failures, timeouts, non-JSON bodies.
	ErrTransport = errors.New("provider unreachable")

	// ErrAPI indicates the provider answered but reported an error status
	// or returned a response with required fields missing.
	ErrAPI = errors.New("api error")

	// ErrValidation indicates the desired record failed local validation
	// before any request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrAmbiguousMatch indicates more than one existing record matched a
	// lookup that expected at most one.
	ErrAmbiguousMatch = errors.New("ambiguous record match")
)

// Refinements of ErrAPI for the categories callers branch on.
// errors.Is matches both the refinement and ErrAPI itself.
var (
	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrAPI)

	// ErrNotFound indicates the requested domain or record does not exist.
	ErrNotFound = fmt.Errorf("%w: not found", ErrAPI)

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrAPI)

	// ErrConflict indicates a state or uniqueness conflict, such as a
	// duplicate record the provider refuses to create.
	ErrConflict = fmt.Errorf("%w: conflict", ErrAPI)
)
