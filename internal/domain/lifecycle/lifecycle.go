// Package lifecycle holds shared timeouts for start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds lifecycle operations like DB pings and server shutdown.
const DefaultTimeout = 10 * time.Second
