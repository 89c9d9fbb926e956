package orchestrator

import "errors"

var (
	ErrNoService     = errors.New("orchestrator requires a query service")
	ErrQueryFailed   = errors.New("query failed")
	ErrStageFailed   = errors.New("stage failed")
	ErrEmptyPipeline = errors.New("pipeline has no stages")
)
