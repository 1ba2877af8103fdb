package extract

import "math/rand"

// pickUserAgent draws a uniformly random entry from the pool. There is no
// shared cursor or stickiness across calls, so no synchronization is needed.
func pickUserAgent(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rand.Intn(len(pool))]
}
