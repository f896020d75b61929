package push

import "errors"

var (
	ErrNotConfigured = errors.New("push gateway is not configured")
	// ErrBatchFailed marks a single failed gateway request. It is counted
	// and logged, never returned from Deliver.
	ErrBatchFailed = errors.New("push batch failed")
)
