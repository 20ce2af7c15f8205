package redis

import (
	"fare/internal/service"
)

// Ensure concrete types implement the interfaces they are injected as.
var (
	_ service.Tracker = (*RequestTracker)(nil)
)
