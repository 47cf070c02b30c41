package simulator

import "time"

const (
	defaultTickInterval     = 3 * time.Second
	defaultTriggerThreshold = 0.7
	defaultProcessingDelay  = 2 * time.Second
)

// Tick outcomes reported to Metrics.ObserveTick.
const (
	TickBusy      = "busy"
	TickSkipped   = "skipped"
	TickTriggered = "triggered"
)
