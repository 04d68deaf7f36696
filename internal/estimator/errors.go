package estimator

import "errors"

var (
	// ErrNoData indicates the requested node/window has zero priced hours.
	// This is a normal, recoverable outcome callers use to skip a node, not
	// an abort; check it with errors.Is.
	ErrNoData = errors.New("estimator: no priced hours in window")

	// ErrInvalidParameter indicates a precondition failure: lookback below
	// one period, clip quantile outside (0,1], or a malformed window.
	ErrInvalidParameter = errors.New("estimator: invalid parameter")
)
