package export

import "time"

const (
	flushSize     = 16
	flushInterval = 2 * time.Second
	flushRPS      = 10

	breakerName             = "clickhouse-export"
	breakerFailureThreshold = 3
	breakerOpenTimeout      = 30 * time.Second
	breakerHalfOpenRequests = 1
)

const (
	FlushSuccess  = "success"
	FlushError    = "error"
	FlushRejected = "rejected"
)
