package cache

import "time"

// Noop is a cache that stores nothing. It is injected when Redis is not
// configured or when the application runs in the degraded unconfigured
// mode, so the services keep a single code path.
type Noop struct{}

// NewNoop returns the no-op cache.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) Get(string, any) (bool, error)        { return false, nil }
func (*Noop) Set(string, any, time.Duration) error { return nil }
func (*Noop) Invalidate(string) error              { return nil }
