// SPDX-License-Identifier: MIT

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickUserAgentEmptyPool(t *testing.T) {
	assert.Equal(t, "", pickUserAgent(nil))
	assert.Equal(t, "", pickUserAgent([]string{}))
}

func TestPickUserAgentSingleEntry(t *testing.T) {
	assert.Equal(t, "agent-a", pickUserAgent([]string{"agent-a"}))
}

func TestPickUserAgentStaysInPool(t *testing.T) {
	pool := []string{"agent-a", "agent-b", "agent-c"}
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ua := pickUserAgent(pool)
		assert.Contains(t, pool, ua)
		seen[ua] = true
	}
	// With 200 independent uniform draws over 3 entries, missing one is
	// vanishingly unlikely.
	assert.Len(t, seen, 3)
}
