package common

import "time"

const (
	BaseWidth  = 1080
	BaseHeight = 576

	// TickRate is the fixed logical update rate; one tick per rendered frame.
	TickRate = 120
)

// TickDuration is the wall time covered by one logical tick.
const TickDuration = time.Second / TickRate
