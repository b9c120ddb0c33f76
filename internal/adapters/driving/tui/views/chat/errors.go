package chat

import "errors"

// ErrNoPipelineService is returned when the pipeline service is not configured.
var ErrNoPipelineService = errors.New("pipeline service not configured")
