package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// floodLimiter applies a per-user token bucket at the update loop, so one
// user hammering the bot cannot starve everyone else. Entries idle for an
// hour are evicted by a background sweep.
type floodLimiter struct {
	mu      sync.Mutex
	users   map[int64]*floodEntry
	rps     rate.Limit
	burst   int
	maxIdle time.Duration
}

type floodEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newFloodLimiter(rps rate.Limit, burst int) *floodLimiter {
	fl := &floodLimiter{
		users:   make(map[int64]*floodEntry),
		rps:     rps,
		burst:   burst,
		maxIdle: time.Hour,
	}
	go fl.sweep()
	return fl
}

// Allow reports whether the user's next update may be processed.
func (fl *floodLimiter) Allow(userID int64) bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	entry, ok := fl.users[userID]
	if !ok {
		entry = &floodEntry{limiter: rate.NewLimiter(fl.rps, fl.burst)}
		fl.users[userID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (fl *floodLimiter) sweep() {
	for {
		time.Sleep(10 * time.Minute)
		fl.mu.Lock()
		for id, entry := range fl.users {
			if time.Since(entry.lastSeen) > fl.maxIdle {
				delete(fl.users, id)
			}
		}
		fl.mu.Unlock()
	}
}
