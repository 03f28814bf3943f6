package origin

import "errors"

var (
	// ErrFactorization means the upper step limit could not be split into
	// primes. It signals a broken estimator precondition; callers must not
	// fall back to a partial estimate.
	ErrFactorization = errors.New("origin: failed to calculate prime factors")

	// ErrInvalidTable indicates a malformed quotient table asset.
	ErrInvalidTable = errors.New("origin: invalid quotient table")
)
