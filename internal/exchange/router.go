package exchange

import (
	"context"
	"fmt"
	"log"
)

// Router picks the primary venue if it answers Ping, else falls back.
type Router struct {
	Primary  Client
	Fallback Client
}

// Get returns the first client that responds to Ping, or an error if neither
// does. The scanner calls it once at startup and exits on that error; the
// venue chosen then is kept for every later tick, with no per-tick re-routing.
func (r *Router) Get(ctx context.Context) (Client, error) {
	if r.Primary != nil {
		if ok, err := r.Primary.Ping(ctx); err == nil && ok {
			return r.Primary, nil
		} else if err != nil {
			log.Printf("⚠️  [Router] primary %s ping failed: %v", r.Primary.Name(), err)
		}
	}
	if r.Fallback != nil {
		if ok, err := r.Fallback.Ping(ctx); err == nil && ok {
			log.Printf("🔄 [Router] falling back to %s", r.Fallback.Name())
			return r.Fallback, nil
		} else if err != nil {
			log.Printf("⚠️  [Router] fallback %s ping failed: %v", r.Fallback.Name(), err)
		}
	}
	return nil, fmt.Errorf("no exchange client available")
}
